package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestCLI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CLI Suite")
}

// resetFlags clears pflag's per-flag Changed bit on cmd and every
// subcommand, recursively. Changed only ever gets set to true by Parse and
// is never reset on its own, so without this a mutual-exclusion check
// (MarkFlagsMutuallyExclusive) would still see a flag from an earlier
// Execute call as "set" even though this invocation never mentioned it.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// runCmd drives the real rootCmd through one invocation. The flag-bound
// package vars are reset first: pflag only overwrites a var when its flag
// is passed again, so without this a flag set by an earlier call (e.g.
// --z3) would silently leak both its value and its Changed bit into a
// later call that never mentions it.
func runCmd(args ...string) (string, error) {
	genSeckeyHex = ""
	verifierZ3 = false
	verifierBulletproofsFile = ""
	proveBulletproofsFile = ""
	resetFlags(rootCmd)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

var _ = Describe("gen and eval subcommands", func() {
	It("generates a key pair and accepts it for evaluation", func() {
		out, err := runCmd("gen")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("z="))
		Expect(out).To(ContainSubstring("x="))

		var seckey string
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "z=") {
				seckey = strings.TrimPrefix(strings.Fields(line)[0], "z=")
			}
		}
		Expect(seckey).NotTo(BeEmpty())

		evalOut, err := runCmd("eval", "deadbeef", seckey)
		Expect(err).NotTo(HaveOccurred())
		Expect(evalOut).To(HavePrefix("eval: "))
	})

	It("rejects a malformed hex message", func() {
		_, err := runCmd("eval", "not-hex", "01")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("verifier subcommand", func() {
	It("rejects mutually exclusive --z3 and --bulletproofs-outfile flags", func() {
		_, err := runCmd("verifier", "deadbeef", "01", "--z3", "--bulletproofs-outfile", "/tmp/out.circuit")
		Expect(err).To(HaveOccurred())
	})

	It("renders a python verifier script by default", func() {
		out, err := runCmd("verifier", "deadbeef", "01")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("def verify(pubkey, output, v):"))
	})
})

var _ = Describe("exit code classification", func() {
	It("leaves a malformed-hex parameter error unwrapped, defaulting to the usage exit code", func() {
		_, err := runCmd("eval", "not-hex", "01")
		Expect(err).To(HaveOccurred())
		var ec exitCoder
		Expect(errors.As(err, &ec)).To(BeFalse())
	})

	It("wraps an I/O failure as an internal error with exit code 1", func() {
		badPath := filepath.Join(os.TempDir(), "this-directory-does-not-exist", "out.circuit")
		_, err := runCmd("verifier", "deadbeef", "01", "--bulletproofs-outfile", badPath)
		Expect(err).To(HaveOccurred())
		var ec exitCoder
		Expect(errors.As(err, &ec)).To(BeTrue())
		Expect(ec.ExitCode()).To(Equal(1))
	})
})

var _ = Describe("Bulletproofs file output end to end", func() {
	It("writes a circuit file and a matching assignment file through the real PRF circuit", func() {
		genOut, err := runCmd("gen")
		Expect(err).NotTo(HaveOccurred())

		var seckey, pubkey string
		for _, line := range strings.Split(genOut, "\n") {
			if strings.HasPrefix(line, "z=") {
				seckey = strings.TrimPrefix(strings.Fields(line)[0], "z=")
			}
			if strings.HasPrefix(line, "x=") {
				pubkey = strings.TrimPrefix(strings.Fields(line)[0], "x=")
			}
		}
		Expect(seckey).NotTo(BeEmpty())
		Expect(pubkey).NotTo(BeEmpty())

		dir := os.TempDir()
		circuitPath := filepath.Join(dir, "purify-test.circuit")
		assignmentPath := filepath.Join(dir, "purify-test.assignment")
		defer os.Remove(circuitPath)
		defer os.Remove(assignmentPath)

		_, err = runCmd("verifier", "deadbeef", pubkey, "--bulletproofs-outfile", circuitPath)
		Expect(err).NotTo(HaveOccurred())
		circuitBytes, err := os.ReadFile(circuitPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(circuitBytes)).To(BeNumerically(">", 4))
		Expect(circuitBytes[:4]).To(Equal([]byte{1, 0, 0, 0}))

		_, err = runCmd("prove", "deadbeef", seckey, "--bulletproofs-outfile", assignmentPath)
		Expect(err).NotTo(HaveOccurred())
		assignmentBytes, err := os.ReadFile(assignmentPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(assignmentBytes)).To(BeNumerically(">", 4))
		Expect(assignmentBytes[:4]).To(Equal([]byte{1, 0, 0, 0}))
	})
})
