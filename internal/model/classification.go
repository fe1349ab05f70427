package model

// Regulation holds the customs treatment attached to an HS code.
type Regulation struct {
	Duty        string `json:"duty"`
	Restriction string `json:"restriction"`
}

type ProductDescription struct {
	Description string `json:"description"`
}

// ClassificationResult is returned as-is by /classify. HSCode is the trimmed
// model output, not the sanitized lookup key.
type ClassificationResult struct {
	Description string     `json:"description"`
	HSCode      string     `json:"hs_code"`
	Regulations Regulation `json:"regulations"`
	Status      string     `json:"status"`
}
