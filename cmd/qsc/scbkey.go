package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qrcs-corp/go-qsc/entropy"
	"github.com/qrcs-corp/go-qsc/keccak"
	"github.com/qrcs-corp/go-qsc/scb"
)

var (
	scbCPUCost int
	scbMemCost int
	scbKeyLen  int
	scbInfo    string
	scbB64     bool
)

var scbkeyCmd = &cobra.Command{
	Use:   "scbkey",
	Short: "Derive a key from an interactive password with the SCB KDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}

		// Salt the password hash with fresh aggregated entropy, printed
		// alongside the key so derivation can be repeated.
		salt := make([]byte, 32)
		if err := entropy.ACPGenerate(salt); err != nil {
			return err
		}

		// The password and salt reduce to the fixed SCB seed size.
		seed := make([]byte, scb.Seed512Size)
		xof := keccak.NewShake512()
		xof.Absorb(password)
		xof.Absorb(salt)
		xof.Squeeze(seed)

		kdf, err := scb.New(seed, []byte(scbInfo), scbCPUCost, scbMemCost)
		if err != nil {
			return err
		}
		defer kdf.Dispose()

		key := make([]byte, scbKeyLen)
		if err := kdf.Generate(key); err != nil {
			return err
		}

		slog.Debug("derived key", "cpu", scbCPUCost, "mem", scbMemCost, "len", scbKeyLen)
		if scbB64 {
			fmt.Printf("salt: %s\nkey:  %s\n",
				base64.URLEncoding.EncodeToString(salt),
				base64.URLEncoding.EncodeToString(key))
			return nil
		}
		os.Stdout.Write(key)
		return nil
	},
}

func init() {
	scbkeyCmd.Flags().IntVar(&scbCPUCost, "cpu", 4, "CPU cost in iterations")
	scbkeyCmd.Flags().IntVar(&scbMemCost, "mem", 8, "memory cost in MiB")
	scbkeyCmd.Flags().IntVar(&scbKeyLen, "len", 64, "key length in bytes")
	scbkeyCmd.Flags().StringVar(&scbInfo, "info", "", "optional KDF info string")
	scbkeyCmd.Flags().BoolVar(&scbB64, "b64", true, "base64 output")
	rootCmd.AddCommand(scbkeyCmd)
}

func readPassword() ([]byte, error) {
	for {
		fmt.Fprint(os.Stderr, "password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(os.Stderr, "confirm: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		if string(password) == string(confirm) {
			return password, nil
		}
		fmt.Fprintln(os.Stderr, "passwords do not match, try again")
	}
}
