package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anhtv08/simple-book-order/pkg/oms/model"
)

type tickSizeConfig struct {
	MaxPrice int64 `json:"maxPrice"` // 0 = no limit
	Step     int64 `json:"step"`
}

// TickSizeRule holds the tick table per exchange.
type TickSizeRule struct {
	Config map[string][]tickSizeConfig
}

// NewTickSizeRuleFromFile loads the tick table from a JSON file.
func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(add *model.AddOrder) error {
	rules, ok := r.Config[add.Exchange]
	if !ok { // no config -> no rule
		return nil
	}

	price := add.Price.IntPart()
	for _, rule := range rules {
		if rule.MaxPrice == 0 || price <= rule.MaxPrice {
			if price%rule.Step != 0 {
				return fmt.Errorf("invalid tick size")
			}
			return nil
		}
	}

	return nil
}
