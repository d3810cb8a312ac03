package consensus

import (
	"github.com/obsidiannet/obsidiand/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CNSS")
