package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/textblob/internal/dialect"
)

var dialectsShowCommands bool

var dialectsCmd = &cobra.Command{
	Use:   "dialects [name]",
	Short: "사용 가능한 컨테이너 방언 목록",
	Long: `내장 방언과 설정 파일에 정의된 방언 목록을 표시합니다.
방언 이름을 지정하면 해당 방언의 명령 테이블을 표시합니다.

설정 파일 예시 (~/.textblob/config.yaml):
  dialects:
    my-mod:
      base: swsh
      padding: double
      commands:
        "0xBE03": WAIT2

사용 예시:
  textblob dialects
  textblob dialects swsh-remap`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDialects,
}

func init() {
	dialectsCmd.Flags().BoolVar(&dialectsShowCommands, "commands", false, "모든 방언의 명령 테이블 표시")

	rootCmd.AddCommand(dialectsCmd)
}

func runDialects(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		d, err := s.registry.Get(args[0])
		if err != nil {
			return fmt.Errorf("알 수 없는 방언: %s", args[0])
		}
		return printCommands(cmd, d)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "방언\t패딩\t구분자\t특수문자\t명령 수\t상태")
	fmt.Fprintln(w, "----\t----\t------\t--------\t-------\t----")

	for _, name := range s.registry.List() {
		d, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%q\t%s\t%d\t%s\n",
			d.Name(), d.Padding(), d.ArgSeparator(), specialStyle(d), len(d.Commands()), dialectStatus(d, s))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if dialectsShowCommands {
		for _, name := range s.registry.List() {
			d, _ := s.registry.Get(name)
			fmt.Fprintf(cmd.OutOrStdout(), "\n[%s]\n", name)
			if err := printCommands(cmd, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func printCommands(cmd *cobra.Command, d *dialect.Dialect) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "코드\t이름")
	for _, c := range d.Commands() {
		fmt.Fprintf(w, "0x%04X\t%s\n", c.Code, c.Name)
	}
	return w.Flush()
}

func specialStyle(d *dialect.Dialect) string {
	if d.SpecialHex() {
		return "hex"
	}
	return "decimal"
}

func dialectStatus(d *dialect.Dialect, s *settings) string {
	if d == s.dialect {
		return "✓ 사용중"
	}
	if _, ok := s.cfg.Dialects[d.Name()]; ok {
		return "사용자 정의"
	}
	return "내장"
}
