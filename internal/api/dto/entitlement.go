package dto

// FeatureLimitResponse is the outcome of the advisory quota gate. Max is nil
// for unlimited.
type FeatureLimitResponse struct {
	Allowed bool `json:"allowed"`
	Current int  `json:"current"`
	Max     *int `json:"max"`
}
