package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OFFSearchResponse represents the response from the Open Food Facts search endpoint
type OFFSearchResponse struct {
	Count    int                `json:"count"`
	Page     FlexFloat          `json:"page"`
	PageSize FlexFloat          `json:"page_size"`
	Products []OFFSearchProduct `json:"products"`
}

// OFFSearchProduct is one entry of a search response; only the code is used
type OFFSearchProduct struct {
	Code FlexString `json:"code"`
}

// OFFProductResponse represents the response from the v3 product endpoint
type OFFProductResponse struct {
	Code    FlexString  `json:"code"`
	Status  string      `json:"status"`
	Product *OFFProduct `json:"product"`
}

// OFFProduct holds the product fields fooddex extracts
type OFFProduct struct {
	ProductName        FlexString        `json:"product_name"`
	Brands             FlexString        `json:"brands"`
	NutriscoreGrade    FlexString        `json:"nutriscore_grade"`
	NovaGroup          FlexFloat         `json:"nova_group"`
	NovaGroupsTags     FlexStrings       `json:"nova_groups_tags"`
	Nutriments         OFFNutriments     `json:"nutriments"`
	NutrientLevels     OFFNutrientLevels `json:"nutrient_levels"`
	IngredientsN       FlexFloat         `json:"ingredients_n"`
	IngredientsTextEn  FlexString        `json:"ingredients_text_en"`
	Categories         FlexString        `json:"categories"`
	ImageFrontSmallURL FlexString        `json:"image_front_small_url"`
}

// OFFNutriments holds the nutriment values per 100g
type OFFNutriments struct {
	EnergyKcal100g FlexFloat `json:"energy-kcal_100g"`
}

// OFFNutrientLevels holds the low/moderate/high indicators
type OFFNutrientLevels struct {
	Fat          FlexString `json:"fat"`
	Salt         FlexString `json:"salt"`
	SaturatedFat FlexString `json:"saturated-fat"`
	Sugars       FlexString `json:"sugars"`
}

// FlexString decodes a JSON string, or the literal text of a JSON number.
// Any other JSON value leaves it invalid.
type FlexString struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = FlexString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString{Value: s, Valid: true}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*f = FlexString{Value: string(data), Valid: true}
	}
	return nil
}

// Ptr returns nil for an invalid value
func (f FlexString) Ptr() *string {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexFloat decodes a JSON number or a string holding a number.
// Anything else leaves it invalid.
type FlexFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat{Value: n, Valid: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	*f = FlexFloat{Value: n, Valid: true}
	return nil
}

// Ptr returns nil for an invalid value
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexStrings decodes a JSON array of strings or a single string
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	*f = nil

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			return nil
		}
		*f = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexStrings{s}
	}
	return nil
}
