package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vocdoni/pod2-sandbox/api"
	"github.com/vocdoni/pod2-sandbox/api/client"
	"github.com/vocdoni/pod2-sandbox/pod"
	"github.com/vocdoni/pod2-sandbox/pod1"
	"github.com/vocdoni/pod2-sandbox/types"
)

var (
	clientHost string
	clientSK   uint64
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running node",
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the parameters tuple and the prover status of a node",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		info, err := c.Info()
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

var schnorrCmd = &cobra.Command{
	Use:   "schnorr <key=value>...",
	Short: "Sign entries into a Schnorr POD",
	Long: `Sign entries into a Schnorr POD. Values that parse as unsigned
integers are scalars, any other value is a string.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make([]pod.Entry, 0, len(args))
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid entry %q, expected key=value", arg)
			}
			if n, err := strconv.ParseUint(value, 10, 64); err == nil {
				entries = append(entries, pod.NewEntry(key, pod.ScalarUint64(n)))
				continue
			}
			entries = append(entries, pod.NewEntry(key, pod.String(value)))
		}
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		p, err := c.SchnorrPOD(clientSK, entries)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var pod1Cmd = &cobra.Command{
	Use:   "pod1 <pod1.json>",
	Short: "Introduce a Zupass POD1 as a Schnorr POD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p1 := &pod1.POD{}
		if err := json.Unmarshal(data, p1); err != nil {
			return fmt.Errorf("invalid pod1 file: %w", err)
		}
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		p, err := c.IntroducePOD1(clientSK, p1)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var oracleCmd = &cobra.Command{
	Use:   "oracle <request.json>",
	Short: "Run the ops of a request file into an oracle POD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readOpsRequest(args[0])
		if err != nil {
			return err
		}
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		p, err := c.OraclePOD(req)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var plonkyCmd = &cobra.Command{
	Use:   "plonky <request.json>",
	Short: "Queue a plonky proving job for the ops of a request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readOpsRequest(args[0])
		if err != nil {
			return err
		}
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		id, err := c.PlonkyJob(req)
		if err != nil {
			return err
		}
		return printJSON(&api.JobResponse{JobID: id})
	},
}

var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Show a proving job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		job, err := c.Job(args[0])
		if err != nil {
			return err
		}
		return printJSON(job)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <contentId>",
	Short: "Show a stored POD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cid, err := types.ParseContentID(args[0])
		if err != nil {
			return err
		}
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		p, err := c.POD(cid)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <contentId>",
	Short: "Verify a stored POD and show its registry proof",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cid, err := types.ParseContentID(args[0])
		if err != nil {
			return err
		}
		c, err := client.New(clientHost)
		if err != nil {
			return err
		}
		res, err := c.VerifyPOD(cid)
		if err != nil {
			return err
		}
		proof, err := c.RegistryProof(cid)
		if err != nil {
			return err
		}
		registered, err := proof.Verify()
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"verify":     res,
			"registered": registered,
			"root":       proof.Root,
		})
	},
}

func readOpsRequest(path string) (*api.OpsRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	req := &api.OpsRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("invalid request file: %w", err)
	}
	return req, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	clientCmd.PersistentFlags().StringVar(&clientHost, "host", "http://127.0.0.1:9090", "node API URL")
	schnorrCmd.Flags().Uint64Var(&clientSK, "sk", 0, "Schnorr secret key, an exponent below 65537")
	_ = schnorrCmd.MarkFlagRequired("sk")
	pod1Cmd.Flags().Uint64Var(&clientSK, "sk", 0, "Schnorr secret key, an exponent below 65537")
	_ = pod1Cmd.MarkFlagRequired("sk")

	clientCmd.AddCommand(infoCmd, schnorrCmd, pod1Cmd, oracleCmd, plonkyCmd, jobCmd, getCmd, verifyCmd)
}
