package address

// Network selects the human-readable prefix used when rendering addresses.
type Network int

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

// HRP returns the bech32m human-readable part for the network.
func (n Network) HRP() string {
	switch n {
	case Testnet:
		return "tebc1"
	case Regtest:
		return "rebc1"
	default:
		return "ebc1"
	}
}

func (n Network) String() string {
	switch n {
	case Testnet:
		return "testnet"
	case Regtest:
		return "regtest"
	default:
		return "mainnet"
	}
}
