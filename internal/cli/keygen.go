package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeJamon/carbond/internal/config"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/crypto"
)

var keygenSeed string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a key pair and its principal",
	Long: `Generate a secp256k1 key pair. The principal goes into [ledger] admin
or is used as an account; the private key is the "secret" accepted by the
transaction RPC methods. Without --seed a random seed is drawn and printed,
so "keygen --seed <seed>" recreates the same key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := keygenSeed
		if seed == "" {
			raw, err := crypto.RandomSeed()
			if err != nil {
				return fmt.Errorf("generate seed: %w", err)
			}
			seed = strings.ToUpper(hex.EncodeToString(raw))
		}

		kp, err := crypto.KeyPairFromSeed([]byte(seed))
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}

		out, err := json.MarshalIndent(map[string]string{
			"seed":        seed,
			"principal":   string(principal.FromPublicKey(kp.PublicKey())),
			"public_key":  kp.PublicKeyHex(),
			"private_key": kp.PrivateKeyHex(),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config <path>",
	Short: "Write an example configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveExampleConfig(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenSeed, "seed", "", "derive the key from this seed instead of a random one")
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(initConfigCmd)
}
