package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/textblob/internal/textblob"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "컨테이너의 각 줄을 태그 텍스트로 출력",
	Long: `텍스트 컨테이너를 디코딩하여 줄 번호와 태그 텍스트를 탭으로 구분해 출력합니다.

예시:
  textblob dump common.dat
  textblob dump common.dat --no-crypt`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "태그 텍스트를 파싱하여 항목 구조 출력",
	Long: `태그 텍스트를 파싱한 결과(text, syntax-tree, ex-data 등)를 YAML로 출력합니다.
번역 중 태그가 올바르게 인식되는지 확인할 때 사용합니다.

예시:
  textblob parse 'Hello[COMMAND WAIT 30][SPECIAL 57471]'
  textblob parse '[EXTDATA 2]첫 줄\n둘째 줄'`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(parseCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := decodeFile(args[0], s)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	for i, e := range doc.Entries {
		fmt.Fprintf(w, "%d\t%s\n", i, textblob.FormatTagged(e, s.dialect))
	}
	return w.Flush()
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	entry := textblob.ParseTaggedText(args[0], nil, s.dialect)

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}
	return enc.Close()
}
