package postgres

import (
	"fmt"
	"strings"

	"github.com/flexprice/invoicely/internal/types"
)

// where accumulates AND-ed conditions written with ? placeholders and
// renders them with postgres positional parameters.
type where struct {
	conds []string
	args  []interface{}
}

func newWhere(tenantID string) *where {
	w := &where{}
	w.add("tenant_id = ?", tenantID)
	return w
}

func (w *where) add(cond string, args ...interface{}) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// paginate appends LIMIT and OFFSET when the filter is bounded
func paginate(query string, args []interface{}, filter types.BaseFilter) (string, []interface{}) {
	if filter == nil || filter.IsUnlimited() {
		return query, args
	}
	args = append(args, filter.GetLimit(), filter.GetOffset())
	return fmt.Sprintf("%s LIMIT $%d OFFSET $%d", query, len(args)-1, len(args)), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
