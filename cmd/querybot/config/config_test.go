package configcmder_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	configcmder "github.com/zubale/querybot/cmd/querybot/config"
	"github.com/zubale/querybot/pkg/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var tmpDir string

	// newCmd builds the config command with the config-dir flag the root
	// command normally provides, pointed at the test's temp directory.
	newCmd := func(args ...string) *cobra.Command {
		cmd := configcmder.NewConfigCmd()
		cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml")
		cmd.SetArgs(append(args, "--config-dir", tmpDir))
		return cmd
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "querybot-config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value and creates the config file", func() {
			err := newCmd("set", "llm.model", "llama3.2").Execute()
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())

			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			value, err := cfger.GetConfigValue("llm.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("llama3.2"))
		})

		It("preserves previously set values across sets", func() {
			Expect(newCmd("set", "llm.model", "llama3.2").Execute()).To(Succeed())
			Expect(newCmd("set", "vector_store.provider", "qdrant").Execute()).To(Succeed())

			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			value, err := cfger.GetConfigValue("llm.model")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("llama3.2"))
		})

		It("rejects unknown keys", func() {
			err := newCmd("set", "invalid_key", "value").Execute()
			Expect(err).To(HaveOccurred())
		})

		It("requires exactly two arguments", func() {
			err := newCmd("set", "llm.model").Execute()
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid uint values", func() {
			err := newCmd("set", "embedding.dimensions", "not-a-number").Execute()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(newCmd("set", "vector_store.provider", "qdrant").Execute()).To(Succeed())

			err := newCmd("get", "vector_store.provider").Execute()
			Expect(err).NotTo(HaveOccurred())
		})

		It("runs without error when no config file exists", func() {
			err := newCmd("get", "llm.model").Execute()
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			err := newCmd("get", "invalid_key").Execute()
			Expect(err).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			err := newCmd("get").Execute()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("runs without error when no config exists", func() {
			err := newCmd("list").Execute()
			Expect(err).NotTo(HaveOccurred())
		})

		It("runs without error when config has values", func() {
			Expect(newCmd("set", "summarizer.max_tokens", "2048").Execute()).To(Succeed())

			err := newCmd("list").Execute()
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects any arguments", func() {
			err := newCmd("list", "extra").Execute()
			Expect(err).To(HaveOccurred())
		})
	})
})
