package mentions

// defaultEntries is the built-in name → ticker table, ordered by the
// position each asset was added in. Names are lowercase, symbols uppercase.
var defaultEntries = []Entry{
	{Name: "bitcoin", Symbol: "BTC"},
	{Name: "ethereum", Symbol: "ETH"},
	{Name: "tether", Symbol: "USDT"},
	{Name: "solana", Symbol: "SOL"},
	{Name: "bnb", Symbol: "BNB"},
	{Name: "xrp", Symbol: "XRP"},
	{Name: "dogecoin", Symbol: "DOGE"},
	{Name: "usd coin", Symbol: "USDC"},
	{Name: "cardano", Symbol: "ADA"},
	{Name: "avalanche", Symbol: "AVAX"},
	{Name: "tron", Symbol: "TRX"},
	{Name: "toncoin", Symbol: "TON"},
	{Name: "polkadot", Symbol: "DOT"},
	{Name: "chainlink", Symbol: "LINK"},
	{Name: "bitcoin cash", Symbol: "BCH"},
	{Name: "litecoin", Symbol: "LTC"},
	{Name: "stellar", Symbol: "XLM"},
	{Name: "aptos", Symbol: "APT"},
	{Name: "hedera", Symbol: "HBAR"},
	{Name: "internet computer", Symbol: "ICP"},
	{Name: "dai", Symbol: "DAI"},
	{Name: "cronos", Symbol: "CRO"},
	{Name: "pol", Symbol: "POL"},
	{Name: "ethereum classic", Symbol: "ETC"},
	{Name: "bittensor", Symbol: "TAO"},
	{Name: "render", Symbol: "RNDR"},
	{Name: "kaspa", Symbol: "KAS"},
	{Name: "arbitrum", Symbol: "ARB"},
	{Name: "celestia", Symbol: "TIA"},
	{Name: "vechain", Symbol: "VET"},
	{Name: "mantra", Symbol: "OM"},
	{Name: "filecoin", Symbol: "FIL"},
	{Name: "bonk", Symbol: "BONK"},
	{Name: "okb", Symbol: "OKB"},
	{Name: "stacks", Symbol: "STX"},
	{Name: "cosmos", Symbol: "ATOM"},
	{Name: "dogwifhat", Symbol: "WIF"},
	{Name: "fantom", Symbol: "FTM"},
	{Name: "injective", Symbol: "INJ"},
	{Name: "monero", Symbol: "XMR"},
	{Name: "sei", Symbol: "SEI"},
	{Name: "immutable", Symbol: "IMX"},
	{Name: "optimism", Symbol: "OP"},
	{Name: "mantle", Symbol: "MNT"},
	{Name: "aave", Symbol: "AAVE"},
	{Name: "algorand", Symbol: "ALGO"},
	{Name: "the graph", Symbol: "GRT"},
	{Name: "bitget token", Symbol: "BGB"},
	{Name: "first digital usd", Symbol: "FDUSD"},
	{Name: "floki", Symbol: "FLOKI"},
	{Name: "theta network", Symbol: "THETA"},
	{Name: "thorchain", Symbol: "RUNE"},
	{Name: "ethena", Symbol: "ENA"},
	{Name: "worldcoin", Symbol: "WLD"},
	{Name: "raydium", Symbol: "RAY"},
	{Name: "maker", Symbol: "MKR"},
	{Name: "pyth network", Symbol: "PYTH"},
	{Name: "the sandbox", Symbol: "SAND"},
	{Name: "lido dao", Symbol: "LDO"},
	{Name: "jupiter", Symbol: "JUP"},
	{Name: "kucoin token", Symbol: "KCS"},
	{Name: "flow", Symbol: "FLOW"},
	{Name: "bitcoin sv", Symbol: "BSV"},
	{Name: "arweave", Symbol: "AR"},
	{Name: "gala", Symbol: "GALA"},
	{Name: "polygon", Symbol: "MATIC"},
	{Name: "eos", Symbol: "EOS"},
	{Name: "bittorrent", Symbol: "BTT"},
	{Name: "tezos", Symbol: "XTZ"},
	{Name: "starknet", Symbol: "STRK"},
	{Name: "flare", Symbol: "FLR"},
	{Name: "jasmy", Symbol: "JASMY"},
	{Name: "quant", Symbol: "QNT"},
	{Name: "decentraland", Symbol: "MANA"},
	{Name: "axie infinity", Symbol: "AXS"},
	{Name: "helium", Symbol: "HNT"},
	{Name: "multiversx", Symbol: "EGLD"},
	{Name: "neo", Symbol: "NEO"},
	{Name: "gatetoken", Symbol: "GT"},
	{Name: "apecoin", Symbol: "APE"},
	{Name: "akash network", Symbol: "AKT"},
	{Name: "dydx", Symbol: "DYDX"},
	{Name: "ecash", Symbol: "XEC"},
	{Name: "mina", Symbol: "MINA"},
	{Name: "nexo", Symbol: "NEXO"},
	{Name: "xdc network", Symbol: "XDC"},
	{Name: "chiliz", Symbol: "CHZ"},
	{Name: "pendle", Symbol: "PENDLE"},
	{Name: "ordi", Symbol: "ORDI"},
	{Name: "conflux", Symbol: "CFX"},
	{Name: "ethereum name service", Symbol: "ENS"},
	{Name: "iota", Symbol: "MIOTA"},
	{Name: "zcash", Symbol: "ZEC"},
	{Name: "usdd", Symbol: "USDD"},
	{Name: "ftx token", Symbol: "FTT"},
	{Name: "pancakeswap", Symbol: "CAKE"},
	{Name: "aelf", Symbol: "ELF"},
	{Name: "0x protocol", Symbol: "ZRX"},
	{Name: "arkham", Symbol: "ARKM"},
	{Name: "woo", Symbol: "WOO"},
	{Name: "trust wallet token", Symbol: "TWT"},
	{Name: "reserve rights", Symbol: "RSR"},
	{Name: "siacoin", Symbol: "SC"},
	{Name: "basic attention token", Symbol: "BAT"},
	{Name: "amp", Symbol: "AMP"},
	{Name: "iotex", Symbol: "IOTX"},
	{Name: "ankr", Symbol: "ANKR"},
	{Name: "space id", Symbol: "ID"},
	{Name: "osmosis", Symbol: "OSMO"},
	{Name: "dash", Symbol: "DASH"},
	{Name: "manta network", Symbol: "MANTA"},
	{Name: "origintrail", Symbol: "TRAC"},
	{Name: "ethereumpow", Symbol: "ETHW"},
	{Name: "qtum", Symbol: "QTUM"},
	{Name: "zetachain", Symbol: "ZETA"},
	{Name: "just", Symbol: "JST"},
	{Name: "gas", Symbol: "GAS"},
	{Name: "baby doge coin", Symbol: "BABYDOGE"},
	{Name: "creditcoin", Symbol: "CTC"},
	{Name: "safepal", Symbol: "SFP"},
	{Name: "ravencoin", Symbol: "RVN"},
	{Name: "polymesh", Symbol: "POLYX"},
	{Name: "harmony", Symbol: "ONE"},
	{Name: "terra", Symbol: "LUNA"},
	{Name: "mask network", Symbol: "MASK"},
	{Name: "chia", Symbol: "XCH"},
	{Name: "threshold", Symbol: "T"},
	{Name: "peercoin", Symbol: "PPC"},
	{Name: "gridcoin", Symbol: "GRC"},
	{Name: "primecoin", Symbol: "XPM"},
	{Name: "nxt", Symbol: "NXT"},
	{Name: "auroracoin", Symbol: "AUR"},
	{Name: "mazacoin", Symbol: "MZC"},
	{Name: "nervos network", Symbol: "CKB"},
	{Name: "shiba inu", Symbol: "SHIB"},
	{Name: "deso", Symbol: "DESO"},
	{Name: "sui", Symbol: "SUI"},
	{Name: "pepe", Symbol: "PEPE"},
	{Name: "near protocol", Symbol: "NEAR"},
	{Name: "unus sed leo", Symbol: "LEO"},
	{Name: "uniswap", Symbol: "UNI"},
	{Name: "wrapped bitcoin", Symbol: "WBTC"},
	{Name: "wrapped ethereum", Symbol: "WETH"},
	{Name: "wrapped tron", Symbol: "WTRX"},
	{Name: "verge", Symbol: "XVG"},
	{Name: "stellar lumens", Symbol: "XLM"},
	{Name: "vertcoin", Symbol: "VTC"},
	{Name: "nano", Symbol: "XNO"},
	{Name: "firo", Symbol: "FIRO"},
	{Name: "safemoon", Symbol: "SAFEMOON"},
	{Name: "ambacoin", Symbol: "AMBA"},
	{Name: "namecoin", Symbol: "NMC"},
}
