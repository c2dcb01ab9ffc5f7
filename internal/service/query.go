package service

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository"
)

// searchFilter matches users whose "firstName lastName" contains the needle
// after Unicode case folding on both sides. An empty needle matches everything.
type searchFilter struct {
	folder cases.Caser
	needle string
}

// newSearchFilter returns a filter for one query; the needle is folded once.
func newSearchFilter(search string) *searchFilter {
	f := &searchFilter{folder: cases.Fold()}
	if search != "" {
		f.needle = f.folder.String(search)
	}
	return f
}

func (f *searchFilter) match(u model.User) bool {
	if f.needle == "" {
		return true
	}
	return strings.Contains(f.folder.String(u.FirstName+" "+u.LastName), f.needle)
}

// paginate filters the ordered collection and cuts out the requested page.
// The caller has validated p; insertion order is kept and OrderBy is ignored.
func paginate(users []model.User, p model.Pagination) model.UserPage {
	f := newSearchFilter(p.Search)
	matched := make([]model.User, 0, len(users))
	for _, u := range users {
		if f.match(u) {
			matched = append(matched, u)
		}
	}
	offset := p.Page * p.PageSize
	if p.Page > 0 && offset/p.Page != p.PageSize {
		// Overflowed: the page lies far beyond any collection.
		offset = len(matched)
	}
	res := repository.Slice(matched, repository.Page{Limit: p.PageSize, Offset: offset})
	return model.UserPage{Total: res.Total, Data: res.Items}
}
