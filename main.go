package main

import (
	"github.com/sam16vis/relocato/cmd"
	"github.com/sam16vis/relocato/database"
)

func main() {
	defer database.ClosePool()
	cmd.Execute()
}
