package manager

import "context"

// ConsistencyIssue reports one item whose stored status disagrees with what
// its children currently derive to — a sign the upward sync after some
// earlier mutation never ran or was interrupted mid-transaction.
type ConsistencyIssue struct {
	ListKey        string `json:"list_key"`
	ItemKey        string `json:"item_key"`
	StoredStatus   string `json:"stored_status"`
	ExpectedStatus string `json:"expected_status"`
}

// DiagnosticErrors walks every visible list's non-leaf items and reports any
// whose stored status has drifted from its children's derived status.
func (m *Manager) DiagnosticErrors(ctx context.Context) ([]ConsistencyIssue, error) {
	lists, err := m.ListLists(ctx, 0)
	if err != nil {
		return nil, err
	}

	var issues []ConsistencyIssue
	for _, list := range lists {
		items, err := m.store.GetListItems(ctx, list.ID, nil, 0)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			summary, err := m.store.GetChildrenStatusSummary(ctx, item.ID)
			if err != nil {
				return nil, err
			}
			if summary.Total == 0 {
				continue
			}
			expected := summary.Derive()
			if expected != item.Status {
				issues = append(issues, ConsistencyIssue{
					ListKey:        list.ListKey,
					ItemKey:        item.ItemKey,
					StoredStatus:   string(item.Status),
					ExpectedStatus: string(expected),
				})
			}
		}
	}
	return issues, nil
}
