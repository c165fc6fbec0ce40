package table

import (
	"github.com/jacoelho/stepgraph/internal/fieldclass"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// Claim finds the entity table of sel that holds id. Variants are tried in
// declared order and nested selects are searched depth-first, so the first
// table holding id wins even when later variants hold it too. tags lists the
// variants leading from sel to the claiming entity type, outermost first.
func (t *Table) Claim(sel *schema.Select, id record.EntityID) (e *schema.Entity, tags []string, ok bool) {
	for _, v := range sel.Variants() {
		switch v.Category {
		case fieldclass.CategoryEntity:
			if _, found := t.Lookup(v.Entity, id); found {
				return v.Entity, []string{v.Tag}, true
			}
		case fieldclass.CategorySelect:
			if inner, innerTags, found := t.Claim(v.Select, id); found {
				return inner, append([]string{v.Tag}, innerTags...), true
			}
		}
	}
	return nil, nil, false
}
