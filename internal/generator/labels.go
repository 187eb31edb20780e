package generator

import (
	"fmt"

	"github.com/clemensrosenow/chainsynth/internal/randx"
)

// CompanyNamer supplies plausible supplier display names. Implementations
// must take their randomness from the passed stream so naming stays inside
// the deterministic draw order.
type CompanyNamer interface {
	CompanyName(rs *randx.Stream) string
}

type fragmentNamer struct {
	regions    []string
	industries []string
	suffixes   []string
}

func defaultCompanyNamer() *fragmentNamer {
	return &fragmentNamer{
		regions:    []string{"Shenzhen", "Dongguan", "Busan", "Ulsan", "Nagoya", "Osaka", "Bavaria", "Rhein", "Detroit", "Nevada", "Pacific", "Northern", "Delta", "Summit"},
		industries: []string{"Precision", "Advanced Materials", "Electrochem", "Cell Systems", "Drivetrain", "Components", "Alloy", "Polymer", "Battery", "Energy", "Motion", "Chemical", "Foil", "Automation"},
		suffixes:   []string{"Co., Ltd.", "GmbH", "Inc.", "Corp.", "Industries", "Holdings", "Group", "Manufacturing", "Partners", "Works"},
	}
}

// CompanyName composes region, industry and corporate-suffix fragments,
// consuming exactly three draws.
func (n *fragmentNamer) CompanyName(rs *randx.Stream) string {
	return fmt.Sprintf("%s %s %s",
		n.regions[rs.Intn(len(n.regions))],
		n.industries[rs.Intn(len(n.industries))],
		n.suffixes[rs.Intn(len(n.suffixes))])
}
