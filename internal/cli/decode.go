package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roboco-io/textblob/internal/ir"
	"github.com/roboco-io/textblob/internal/textblob"
)

var (
	decodeOutput string
	decodeFormat string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "텍스트 컨테이너를 편집 가능한 형식으로 디코딩",
	Long: `암호화된 텍스트 컨테이너를 해독하여 항목 목록을 출력합니다.

출력 형식:
  yaml   하이픈 키를 사용하는 항목 목록 (기본)
  json   메타데이터를 포함한 문서
  text   항목당 한 줄의 태그 텍스트

형식을 지정하지 않으면 출력 파일의 확장자 또는 설정 파일의 format 값을 사용합니다.

예시:
  textblob decode common.dat
  textblob decode common.dat -o common.yaml
  textblob decode common.dat --format text --dialect swsh-remap`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "", "출력 형식 (yaml, json, text)")

	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	format := decodeFormat
	if format == "" {
		if f, ok := formatFromPath(decodeOutput); ok {
			format = f
		} else {
			format = s.cfg.Format
		}
	}

	doc, err := decodeFile(inputPath, s)
	if err != nil {
		return err
	}

	output, err := marshalDocument(doc, format, s.dialect)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if decodeOutput == "" {
		_, err = cmd.OutOrStdout().Write(output)
		return err
	}
	if err := os.WriteFile(decodeOutput, output, 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	s.logger.Info("decoded", "file", inputPath, "output", decodeOutput, "lines", doc.Lines())
	return nil
}

// decodeFile reads and decodes one container.
func decodeFile(path string, s *settings) (*ir.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
		}
		return nil, fmt.Errorf("파일 읽기 실패: %w", err)
	}

	entries, err := textblob.Decode(data, s.opts)
	if err != nil {
		return nil, fmt.Errorf("디코딩 실패 %s: %w", path, err)
	}
	s.logger.Debug("container decoded", "file", path, "bytes", len(data), "lines", len(entries),
		"dialect", s.dialect.Name(), "crypt", s.opts.Crypt)

	return newDocument(path, entries, s), nil
}
