package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DotenvEnv: 읽을 .env 파일 목록(쉼표 구분)을 지정하는 환경 변수
const DotenvEnv = "POTATO_DOTENV"

// DefaultDotenvPaths: 로컬 덮어쓰기 파일이 공용 파일보다 먼저 온다.
var DefaultDotenvPaths = []string{".env.local", ".env"}

// DotenvPaths: POTATO_DOTENV 가 있으면 그 목록, 없으면 DefaultDotenvPaths.
func DotenvPaths() []string {
	return StringListFromEnv(DotenvEnv, DefaultDotenvPaths)
}

// LoadDotenvIfPresent: 존재하는 파일만 순서대로 읽고 실제로 읽은 경로를 반환한다.
// 이미 설정된 키는 덮어쓰지 않으므로 앞의 파일과 프로세스 환경이 우선한다.
// paths 가 비어 있으면 DotenvPaths() 를 쓴다.
func LoadDotenvIfPresent(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = DotenvPaths()
	}

	var loaded []string
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return loaded, fmt.Errorf("stat dotenv file failed path=%s: %w", path, err)
		}
		if info.IsDir() {
			return loaded, fmt.Errorf("dotenv path is a directory path=%s", path)
		}

		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load dotenv file failed path=%s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
