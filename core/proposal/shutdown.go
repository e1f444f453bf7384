package proposal

// ShutdownReq triggers the emergency shutdown. The payload carries no
// fields; passing the proposal is the whole of the action.
type ShutdownReq struct{}

// MarshalBinary marshal req to binary
func (w ShutdownReq) MarshalBinary() (data []byte, err error) {
	return []byte{}, nil
}

// UnmarshalBinary unmarshal bytes to req
func (w *ShutdownReq) UnmarshalBinary(data []byte) error {
	return nil
}

// OpenRefundReq opens the post shutdown collateral refund window
type OpenRefundReq struct{}

// MarshalBinary marshal req to binary
func (w OpenRefundReq) MarshalBinary() (data []byte, err error) {
	return []byte{}, nil
}

// UnmarshalBinary unmarshal bytes to req
func (w *OpenRefundReq) UnmarshalBinary(data []byte) error {
	return nil
}
