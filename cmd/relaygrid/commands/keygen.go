package commands

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/relaygrid/relaygrid/src/crypto"
)

var privKeyFile string

// NewKeygenCmd produces a KeygenCmd which creates a new key pair.
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a new key pair",
		RunE:  keygen,
	}

	cmd.Flags().StringVar(&privKeyFile, "priv", "", "File where the private key will be written")

	return cmd
}

func keygen(cmd *cobra.Command, args []string) error {
	if privKeyFile == "" {
		privKeyFile = _config.Keyfile()
	}

	if _, err := os.Stat(privKeyFile); err == nil {
		return fmt.Errorf("a key already lives under: %s", path.Dir(privKeyFile))
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("error generating key: %v", err)
	}

	keyfile := crypto.NewSimpleKeyfile(privKeyFile)

	if err := keyfile.WriteKey(key); err != nil {
		return fmt.Errorf("writing private key: %v", err)
	}

	fmt.Printf("Your private key has been saved to: %s\n", privKeyFile)
	fmt.Printf("Share this public key with participants: %s\n", crypto.PubKeyHex(key.PubKey()))

	return nil
}

func init() {
	RootCmd.AddCommand(NewKeygenCmd())
}
