package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

var builtinSeeds = []string{
	"",
	"\n\n",
	"sequenceDiagram\nparticipant A as Alice\nalt ok\nA->>B: hi\nelse fail\nB-->>A: no\nend\n",
	"graph TD\nA -->|  yes | B\nsubgraph one\nC[  x  ]\nend\n",
	"stateDiagram-v2\nstate S {\n[*] --> A\n}\n}\n",
	"classDiagram\nclass A {\n+int x\n}\nnote for A \"hi\"\n",
	"pie showData title Pets\n\"Dogs\" : 3\n",
	"%%{init: {'theme': 'dark'}}%%\nflowchart LR\nA --> B\n",
	"sequenceDiagram\ncritical lock\noption timeout\nend\n",
	"erDiagram\nA ||--o{ B : has\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.mmd файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".mmd" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
