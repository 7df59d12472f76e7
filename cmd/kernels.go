package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AnyUserName/pixcore/pixel"
	"github.com/spf13/cobra"
)

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List convolution kernel presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range pixel.KernelNames() {
			k, err := pixel.KernelByName(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %-9s %dx%d  border %dpx\n", name, k.Size(), k.Size(), k.Radius())
			for row := 0; row < k.Size(); row++ {
				cells := make([]string, k.Size())
				for col := range cells {
					cells[col] = strconv.FormatFloat(k[row*k.Size()+col], 'g', 4, 64)
				}
				fmt.Printf("    [ %s ]\n", strings.Join(cells, " "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kernelsCmd)
}
