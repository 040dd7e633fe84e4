// Copyright (c) 2017-2019 The mynt developers
package blockchain

import (
	l "github.com/myntproject/mynt/log"
)

// log is the subsystem logger for the blockchain package.  Its level is
// controlled through the log package, so it performs no output by default
// until the caller requests it.
var log = l.New("BCHN")
