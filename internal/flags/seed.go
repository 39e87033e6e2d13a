package flags

import (
	"github.com/spf13/cobra"
)

var seed uint64

// AddSeed adds the seed flag; zero keeps the game.seed setting
func AddSeed(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the piece sequence and the autoplayer. Zero uses the game.seed setting.")
}

func Seed() uint64 {
	return seed
}
