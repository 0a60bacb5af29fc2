package sqlite

import "context"

// Stats summarizes the store contents.
type Stats struct {
	Nodes         int64
	Edges         int64
	EmbeddedNodes int64
}

// Stats returns node, edge, and embedded-node counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkOpen("stats"); err != nil {
		return Stats{}, err
	}

	var st Stats
	query := `
	SELECT
		(SELECT COUNT(*) FROM nodes),
		(SELECT COUNT(*) FROM edges),
		(SELECT COUNT(*) FROM nodes WHERE embedding IS NOT NULL)
	`

	s.track()
	if err := s.db.QueryRowContext(ctx, query).Scan(&st.Nodes, &st.Edges, &st.EmbeddedNodes); err != nil {
		return Stats{}, wrapError("stats", err)
	}
	return st, nil
}
