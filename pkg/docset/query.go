package docset

import "strings"

// SearchResult holds a component match with the reason it matched.
type SearchResult struct {
	Entry       *Entry
	MatchReason string
}

// QueryService provides read-only query methods over a loaded set.
type QueryService struct {
	Set   *Set
	Index *Index
}

// NewQueryService creates a QueryService from a validated set and its index.
func NewQueryService(set *Set, idx *Index) *QueryService {
	return &QueryService{Set: set, Index: idx}
}

// LoadAndQuery loads a set from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	set, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(set, idx), nil
}

// ListComponents returns entries filtered by keyword. Pass "" to return
// all. The keyword matches case-insensitively against component name and
// description.
func (q *QueryService) ListComponents(keyword string) []Entry {
	keyword = strings.ToLower(keyword)
	result := make([]Entry, 0, len(q.Set.Components))

	for _, entry := range q.Set.Components {
		if keyword != "" {
			nameLower := strings.ToLower(entry.Name)
			descLower := ""
			if entry.Doc != nil {
				descLower = strings.ToLower(entry.Doc.Description)
			}
			if !strings.Contains(nameLower, keyword) && !strings.Contains(descLower, keyword) {
				continue
			}
		}
		result = append(result, entry)
	}

	return result
}

// GetComponent looks up an entry by component name, falling back to the
// relative file path. The bool indicates whether it was found.
func (q *QueryService) GetComponent(name string) (*Entry, bool) {
	if entry, ok := q.Index.ByName[name]; ok {
		return entry, true
	}
	if entry, ok := q.Index.ByPath[name]; ok {
		return entry, true
	}
	return nil, false
}

// SearchComponents performs a case-insensitive search across component
// names, descriptions, data property names, event names, and callable
// names. Returns matching entries with the reason for the match.
func (q *QueryService) SearchComponents(query string) []SearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []SearchResult

	for i := range q.Set.Components {
		entry := &q.Set.Components[i]
		if reason, ok := matchEntry(entry, query); ok {
			results = append(results, SearchResult{Entry: entry, MatchReason: reason})
		}
	}

	return results
}

func matchEntry(entry *Entry, query string) (string, bool) {
	if strings.Contains(strings.ToLower(entry.Name), query) {
		return "name", true
	}

	doc := entry.Doc
	if doc == nil {
		return "", false
	}
	if strings.Contains(strings.ToLower(doc.Description), query) {
		return "description", true
	}
	for _, d := range doc.Data {
		if strings.Contains(strings.ToLower(d.Name), query) {
			return "data:" + d.Name, true
		}
	}
	for _, e := range doc.Events {
		if strings.Contains(strings.ToLower(e.Name), query) {
			return "event:" + e.Name, true
		}
	}
	for _, m := range doc.Methods {
		if strings.Contains(strings.ToLower(m.Name), query) {
			return "method:" + m.Name, true
		}
	}
	for _, s := range doc.Slots {
		if strings.Contains(strings.ToLower(s.Name), query) {
			return "slot:" + s.Name, true
		}
	}
	return "", false
}
