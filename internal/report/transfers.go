package report

import (
	"regexp"
	"strings"

	"vypiska/internal/core"
)

// DefaultTransferCategory is the category label banks put on person-to-person
// transfers in the statement export.
const DefaultTransferCategory = "Переводы"

// individualPattern matches descriptions of the form "Name X.": one
// capitalized word, a space, a capital initial and a period, nothing else.
// Both Cyrillic and Latin spellings occur in exports.
var individualPattern = regexp.MustCompile(`^[А-ЯA-Z][а-яa-z]+ [А-ЯA-Z]\.$`)

// FindIndividualTransfers selects the rows that look like transfers to a
// private person: the category equals the transfer label and the description
// is a "Name X." string. Matching rows keep their source order; no matches is
// an empty table, not an error.
func FindIndividualTransfers(table *core.Table, category string) (*core.Table, error) {
	if category == "" {
		category = DefaultTransferCategory
	}
	categoryIdx, err := table.ColumnIndex(core.ColCategory)
	if err != nil {
		return nil, err
	}
	descriptionIdx, err := table.ColumnIndex(core.ColDescription)
	if err != nil {
		return nil, err
	}
	return table.Select(func(i int) bool {
		row := table.Row(i)
		if strings.TrimSpace(row[categoryIdx]) != category {
			return false
		}
		return individualPattern.MatchString(strings.TrimSpace(row[descriptionIdx]))
	}), nil
}
