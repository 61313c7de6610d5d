package models

// AddressCandidate is one suggestion from the address lookup service
type AddressCandidate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FullAddress    string `json:"fullAddress,omitempty"`
	PlaceFormatted string `json:"placeFormatted,omitempty"`
}

// DisplayAddress returns the best available label: fullAddress, placeFormatted, then name
func (a AddressCandidate) DisplayAddress() string {
	switch {
	case a.FullAddress != "":
		return a.FullAddress
	case a.PlaceFormatted != "":
		return a.PlaceFormatted
	default:
		return a.Name
	}
}
