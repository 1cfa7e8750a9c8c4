package entity

// XCHScanBalance is the account/balance response.
type XCHScanBalance struct {
	XCH *FlexFloat `json:"xch"`
}
