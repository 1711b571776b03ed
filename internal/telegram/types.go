package telegram

import (
	"github.com/gotd/td/tg"
)

// historyPageSize is the maximum page size accepted by messages.getHistory.
const historyPageSize = 100

// Channel is a resolved public peer whose history can be read.
type Channel struct {
	Username string           // username (without @)
	Title    string           // display title
	Peer     tg.InputPeerClass // input peer for api calls
}

// FetchStats tracks what a history walk saw.
type FetchStats struct {
	Pages      int // history pages requested
	Fetched    int // messages returned by telegram
	Kept       int // messages newer than the cutoff
	SkippedOld int // messages at or past the cutoff boundary
}
