package entity

// ContractCall is a single read-only eth_call against a contract.
type ContractCall struct {
	To   string
	Data []byte
}

// CallResult pairs the raw return data of a call with its per-call error.
type CallResult struct {
	Data []byte
	Err  error
}
