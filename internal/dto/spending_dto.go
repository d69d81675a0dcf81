package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Amount accepts a JSON number or a numeric string, since form inputs
// often post "12.50".
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("amount %q is not a number", s)
		}
		*a = Amount(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// CreateSpendingRequest references its day either by id or by date.
type CreateSpendingRequest struct {
	DailyTaskID *uuid.UUID `json:"daily_task_id"`
	Date        string     `json:"date"`
	Amount      Amount     `json:"amount"`
	Category    string     `json:"category"`
	Description *string    `json:"description"`
}

type UpdateSpendingRequest struct {
	Amount      *Amount `json:"amount"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
