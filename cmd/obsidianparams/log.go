package main

import (
	"github.com/obsidiannet/obsidiand/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PRMS")
