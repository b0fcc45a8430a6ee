package app

import (
	"strconv"

	"github.com/PancyStudios/AnimeBotGo/pkg/database"
)

// Free-text queries do not fit in callback data, so the last one of every user is
// kept here and the page buttons carry only the mode and page number.

type searchSession struct {
	By   database.SearchBy
	Term string
}

// RememberSearch stores the last query of userID
func (s *Services) RememberSearch(userID int64, by database.SearchBy, term string) {
	s.searches.SetDefault(strconv.FormatInt(userID, 10), searchSession{By: by, Term: term})
}

// LastSearch returns the last query of userID if it was made with by
func (s *Services) LastSearch(userID int64, by database.SearchBy) (string, bool) {
	v, ok := s.searches.Get(strconv.FormatInt(userID, 10))
	if !ok {
		return "", false
	}
	sess := v.(searchSession)
	if sess.By != by {
		return "", false
	}
	return sess.Term, true
}
