package dto

type CreateDietMealRequest struct {
	Day         int      `json:"day"`
	MealType    string   `json:"meal_type"`
	Name        string   `json:"name"`
	Kcal        float64  `json:"kcal"`
	Protein     float64  `json:"protein"`
	Fat         float64  `json:"fat"`
	Carbs       float64  `json:"carbs"`
	Ingredients []string `json:"ingredients"`
	SortOrder   int      `json:"sort_order"`
}

type UpdateDietMealRequest struct {
	Day         *int      `json:"day"`
	MealType    *string   `json:"meal_type"`
	Name        *string   `json:"name"`
	Kcal        *float64  `json:"kcal"`
	Protein     *float64  `json:"protein"`
	Fat         *float64  `json:"fat"`
	Carbs       *float64  `json:"carbs"`
	Ingredients *[]string `json:"ingredients"`
	SortOrder   *int      `json:"sort_order"`
}
