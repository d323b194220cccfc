package verifier

import (
	"regexp"

	errs "github.com/debatelab/argdown-feedback-sub001/pkg/errors"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

// ItemPredicate selects the primary data items a check applies to.
type ItemPredicate func(*model.PrimaryData) bool

// DTypePredicate matches items of one artifact type.
func DTypePredicate(dtype model.DType) ItemPredicate {
	return func(item *model.PrimaryData) bool {
		return item != nil && item.DType == dtype
	}
}

type compiledCriterion struct {
	key   string
	value string
	re    *regexp.Regexp
}

// RolePredicate builds the item selector for a filter role: the item must
// carry the role's artifact type and satisfy every criterion against its
// block metadata. A criterion with an invalid regular expression yields a
// FilteringError.
func RolePredicate(role string, criteria []model.Criterion) (ItemPredicate, error) {
	dtype := model.RoleDType(role)

	compiled := make([]compiledCriterion, 0, len(criteria))
	for _, c := range criteria {
		cc := compiledCriterion{key: c.Key, value: c.Value}
		if c.Regex {
			re, err := regexp.Compile(c.Value)
			if err != nil {
				return nil, errs.NewFilteringError(role, err)
			}
			cc.re = re
		}
		compiled = append(compiled, cc)
	}

	return func(item *model.PrimaryData) bool {
		if item == nil || item.DType != dtype {
			return false
		}
		for _, c := range compiled {
			if item.Metadata == nil {
				return false
			}
			v, ok := item.Metadata.Get(c.key)
			if !ok {
				return false
			}
			if c.re != nil {
				if !c.re.MatchString(v) {
					return false
				}
			} else if v != c.value {
				return false
			}
		}
		return true
	}, nil
}

// PredicateFor resolves the selector for a role under a filter spec: the
// role's declared criteria when present, otherwise the bare artifact-type
// match.
func PredicateFor(spec model.FilterSpec, role string) (ItemPredicate, error) {
	if criteria, ok := spec.ForRole(role); ok {
		return RolePredicate(role, criteria)
	}
	return DTypePredicate(model.RoleDType(role)), nil
}

// EachItem applies fn to every item that has parsed data and matches pred.
// Items whose parser failed (nil Data) are skipped: the parse failure is
// already recorded.
func EachItem(req *model.Request, pred ItemPredicate, fn func(item *model.PrimaryData)) {
	for _, item := range req.Items {
		if item == nil || item.Data == nil {
			continue
		}
		if pred != nil && !pred(item) {
			continue
		}
		fn(item)
	}
}

// LastMatching returns the last item with parsed data matching pred, nil
// when none matches. Later blocks supersede earlier ones of the same role.
func LastMatching(req *model.Request, pred ItemPredicate) *model.PrimaryData {
	var found *model.PrimaryData
	EachItem(req, pred, func(item *model.PrimaryData) {
		found = item
	})
	return found
}
