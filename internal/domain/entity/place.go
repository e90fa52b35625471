package entity

// Place is a user-defined point of interest.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Rad  float64 `json:"rad"`
	Img  string  `json:"img"`
}
