package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qrcs-corp/go-qsc/entropy"
)

var (
	randCount int
	randHex   bool
)

var randCmd = &cobra.Command{
	Use:   "rand",
	Short: "Emit bytes from the entropy aggregator",
	RunE: func(cmd *cobra.Command, args []string) error {
		buf := make([]byte, randCount)
		if err := entropy.ACPGenerate(buf); err != nil {
			return err
		}
		if randHex {
			fmt.Println(hex.EncodeToString(buf))
			return nil
		}
		_, err := os.Stdout.Write(buf)
		return err
	},
}

func init() {
	randCmd.Flags().IntVar(&randCount, "count", 32, "number of bytes")
	randCmd.Flags().BoolVar(&randHex, "hex", true, "hex output")
	rootCmd.AddCommand(randCmd)
}
