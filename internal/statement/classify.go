package statement

import (
	"strconv"

	"github.com/gzmliang/finbook/internal/coa"
)

// Category is the statement grouping of an account, derived from its
// top-level ancestor in the chart of accounts.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryEquity    Category = "equity"
	CategoryRevenue   Category = "revenue"
	CategoryExpense   Category = "expense"
	CategoryUnknown   Category = "unknown"
)

// plSplit divides profit-and-loss codes: below it revenue, at or above
// it expense (6001 operating revenue ... 6401 cost of sales, 6601 selling
// expenses, per the CAS chart numbering the original system uses).
const plSplit = 6400

// classifier resolves accounts to categories through the parent chain.
// The default rules follow the standard Chinese chart-of-accounts code
// ranges: 1xxx assets, 2xxx liabilities, 3xxx/4xxx equity, 5xxx costs,
// 6xxx profit and loss.
type classifier struct {
	byCode map[string]*coa.Account
}

func newClassifier(accounts []*coa.Account) *classifier {
	byCode := make(map[string]*coa.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return &classifier{byCode: byCode}
}

// rootOf walks the parent chain to the top-level ancestor. A chart with a
// parent cycle has no root; the walk stops on a revisited code and returns
// nil so the account classifies as CategoryUnknown.
func (c *classifier) rootOf(code string) *coa.Account {
	seen := make(map[string]struct{})
	account := c.byCode[code]
	for account != nil && account.ParentCode != nil {
		if _, ok := seen[account.Code]; ok {
			return nil
		}
		seen[account.Code] = struct{}{}

		parent := c.byCode[*account.ParentCode]
		if parent == nil {
			break
		}
		account = parent
	}
	return account
}

// categoryOf classifies an account by its root ancestor's code.
func (c *classifier) categoryOf(code string) Category {
	root := c.rootOf(code)
	if root == nil || root.Code == "" {
		return CategoryUnknown
	}

	switch root.Code[0] {
	case '1':
		return CategoryAsset
	case '2':
		return CategoryLiability
	case '3', '4':
		return CategoryEquity
	case '5':
		return CategoryExpense
	case '6':
		if n, err := strconv.Atoi(root.Code); err == nil && n < plSplit {
			return CategoryRevenue
		}
		return CategoryExpense
	default:
		return CategoryUnknown
	}
}

// leavesUnder returns the leaf descendant codes of a root account,
// including the root itself when it has no children.
func (c *classifier) leavesUnder(rootCode string) []string {
	children := make(map[string][]string)
	for _, a := range c.byCode {
		if a.ParentCode != nil {
			children[*a.ParentCode] = append(children[*a.ParentCode], a.Code)
		}
	}

	var leaves []string
	seen := make(map[string]struct{})
	var walk func(code string)
	walk = func(code string) {
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}

		kids := children[code]
		if len(kids) == 0 {
			leaves = append(leaves, code)
			return
		}
		for _, k := range kids {
			walk(k)
		}
	}
	walk(rootCode)
	return leaves
}
