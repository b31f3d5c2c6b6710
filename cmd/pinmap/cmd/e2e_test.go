package cmd

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/schodet/pinmap/pkg/mcudb"
	"github.com/schodet/pinmap/pkg/pintable"
)

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(content))
	zw.Close()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

// testDatabase creates a database with one AF part and one remap part.
func testDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeGzip(t, filepath.Join(dir, "mcu", "STM32F401CCUx.xml.gz"), `<Mcu Line="STM32F401" Package="UFQFPN48">
	<IP Name="GPIO" Version="F401"/>
	<Pin Name="PA0" Position="0">
		<Signal Name="USART2_TX"/>
		<Signal Name="GPIO"/>
	</Pin>
	<Pin Name="PA1" Position="1">
		<Signal Name="ADC1_IN1"/>
	</Pin>
</Mcu>`)
	writeGzip(t, filepath.Join(dir, "mcu", "IP", "GPIO-F401_Modes.xml.gz"), `<IP>
	<GPIO_Pin Name="PA0">
		<PinSignal Name="USART2_TX"><SpecificParameter><PossibleValue>GPIO_AF7_USART2</PossibleValue></SpecificParameter></PinSignal>
	</GPIO_Pin>
</IP>`)
	writeGzip(t, filepath.Join(dir, "mcu", "STM32F103C8Tx.xml.gz"), `<Mcu Line="STM32F103" Package="LQFP48">
	<IP Name="GPIO" Version="F103"/>
	<Pin Name="PB2" Position="20">
		<Signal Name="SPI1_MOSI"/>
		<Signal Name="BOOT1"/>
	</Pin>
</Mcu>`)
	writeGzip(t, filepath.Join(dir, "mcu", "IP", "GPIO-F103_Modes.xml.gz"), `<IP>
	<GPIO_Pin Name="PB2">
		<PinSignal Name="SPI1_MOSI"><RemapBlock Name="SPI1_REMAP2"/><RemapBlock Name="SPI1_REMAP0"/></PinSignal>
	</GPIO_Pin>
</IP>`)
	return dir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command and returns what was written to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTableE2E(t *testing.T) {
	db := testDatabase(t)

	tests := []struct {
		name        string
		args        []string
		wantContain []string
		wantMissing []string
	}{
		{
			name:        "keep names",
			args:        []string{"table", "-d", db, "--keep-names", "STM32F401CCUx"},
			wantContain: []string{"PA0,0,,,,,,,,USART2_TX,,,,,,,,,\n", "PA1,1,,,,,,,,,,,,,,,,,ADC1_IN1\n"},
		},
		{
			name:        "shortened names",
			args:        []string{"table", "--database", db, "STM32F401CCUx"},
			wantContain: []string{"PA0,0,,,,,,,,U2_TX,"},
		},
		{
			name:        "excluded",
			args:        []string{"-x", "ADC", "table", "-d", db, "STM32F401CCUx"},
			wantContain: []string{"PA1,1,,,,,,,,,,,,,,,,,\n"},
			wantMissing: []string{"ADC1_IN1"},
		},
		{
			name:        "af header",
			args:        []string{"table", "-d", db, "--header", "STM32F401CCUx"},
			wantContain: []string{"Pin,Position,AF0,AF1,", "AF15,AddF\n"},
		},
		{
			name:        "remap",
			args:        []string{"table", "-d", db, "--header", "--keep-names", "STM32F103C8Tx"},
			wantContain: []string{"Pin,Position,BOOT1,SPI1\n", `PB2,20,BOOT1,"SPI1_MOSI(0,2)"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing %q\nGot:\n%s", want, output)
				}
			}
			for _, missing := range tt.wantMissing {
				if strings.Contains(output, missing) {
					t.Errorf("Output should not contain %q\nGot:\n%s", missing, output)
				}
			}
		})
	}
}

func TestTableErrorsE2E(t *testing.T) {
	db := testDatabase(t)

	output, err := run(t, "-x", "(", "table", "-d", db, "STM32F401CCUx")
	var perr *pintable.PatternError
	if !errors.As(err, &perr) {
		t.Errorf("expected PatternError, got %v", err)
	}
	if output != "" {
		t.Errorf("no table expected, got %q", output)
	}

	_, err = run(t, "table", "-d", db, "STM32XXX")
	if !errors.Is(err, mcudb.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := run(t, "table", "-d", db); err == nil {
		t.Error("expected error without part argument")
	}
}

func TestTableOutputFile(t *testing.T) {
	db := testDatabase(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	output, err := run(t, "table", "-d", db, "-o", path, "STM32F103C8Tx")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output != "" {
		t.Errorf("stdout should be empty, got %q", output)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"S1_MOSI(0,2)"`) {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestPartsE2E(t *testing.T) {
	db := testDatabase(t)

	output, err := run(t, "parts", "-d", db, "STM32F")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "STM32F103C8Tx: STM32F103 LQFP48\nSTM32F401CCUx: STM32F401 UFQFPN48\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}

	output, err = run(t, "parts", "-d", db, "--mode", "F103")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output != "STM32F103C8Tx: STM32F103 LQFP48 [Remap]\n" {
		t.Errorf("unexpected output %q", output)
	}

	if _, err := run(t, "parts", "-d", db, "["); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestRulesE2E(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "rules.txt")
	if err := os.WriteFile(rules, []byte(`substitute "(E)TH"`), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := run(t, "-x", "ADC", "-r", rules, "rules")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{
		"substitute ^((?:HR|LP)?T)IM([0-9_])\n",
		"substitute ^(E)TH([0-9_])\n",
		`factorize [SUT]\d_(.+) sep "/"`,
		"exclude (?:^(?:ADC)[0-9_])\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q\nGot:\n%s", want, output)
		}
	}

	output, err = run(t, "rules", "--keep-names")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output != "" {
		t.Errorf("expected no rule, got %q", output)
	}
}

func TestConfigE2E(t *testing.T) {
	db := testDatabase(t)
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "pinmap.yaml")
	content := "database: " + db + "\nexclude:\n  - ADC\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := run(t, "--config", cfgPath, "table", "--keep-names", "STM32F401CCUx")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "USART2_TX") || strings.Contains(output, "ADC1_IN1") {
		t.Errorf("config not applied:\n%s", output)
	}

	// Command line database overrides the configuration.
	if _, err := run(t, "--config", cfgPath, "table", "-d", t.TempDir(), "STM32F401CCUx"); !errors.Is(err, mcudb.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := run(t, "--config", filepath.Join(cfgDir, "missing.yaml"), "rules"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadConfigRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("database: db\nrules: rules.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database != filepath.Join(dir, "db") || cfg.Rules != filepath.Join(dir, "rules.txt") {
		t.Errorf("unexpected config %+v", cfg)
	}

	cfg, err = LoadConfig(filepath.Join(dir, "none.yaml"), false)
	if err != nil || cfg.Database != "" {
		t.Errorf("missing default config should be empty, got %+v, %v", cfg, err)
	}
}
