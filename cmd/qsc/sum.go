package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/qrcs-corp/go-qsc/keccak"
)

var (
	sumMacKey string
	sumLength int
)

var sumCmd = &cobra.Command{
	Use:   "sum [files...]",
	Short: "SHAKE-256 checksum of files or stdin, optionally keyed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			checksum, err := sumReader(os.Stdin)
			if err != nil {
				return err
			}
			fmt.Println(checksum)
			return nil
		}
		for _, filename := range args {
			checksum, err := sumFile(filename)
			if err != nil {
				return err
			}
			fmt.Printf("SHAKE256(%s) = %s\n", filename, checksum)
		}
		return nil
	},
}

func init() {
	sumCmd.Flags().StringVar(&sumMacKey, "mackey", "", "an ASCII MAC key")
	sumCmd.Flags().IntVar(&sumLength, "len", 64, "digest length in bytes")
	rootCmd.AddCommand(sumCmd)
}

func sumReader(r io.Reader) (string, error) {
	var d *keccak.State
	if sumMacKey != "" {
		k := keccak.NewKMAC256([]byte(sumMacKey), nil, sumLength)
		if _, err := io.Copy(k, r); err != nil {
			return "", err
		}
		return base64.URLEncoding.EncodeToString(k.Sum(nil)), nil
	}
	d = keccak.NewShake256()
	if _, err := io.Copy(d, r); err != nil {
		return "", err
	}
	digest := make([]byte, sumLength)
	d.Squeeze(digest)
	return base64.URLEncoding.EncodeToString(digest), nil
}

func sumFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return sumReader(f)
}
