package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/learnhub-backend/internal/app"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "taxonomy.yaml", "YAML document listing subjects, topics and chapters")
	flag.Parse()

	f, err := os.Open(file)
	if err != nil {
		fmt.Printf("open %s: %v\n", file, err)
		os.Exit(1)
	}
	defer f.Close()

	application, err := app.New(context.Background())
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	res, err := application.Services.Taxonomy.Import(dbctx.Context{Ctx: context.Background()}, f)
	if err != nil {
		fmt.Printf("import %s: %v\n", file, err)
		os.Exit(1)
	}
	fmt.Printf("created subjects=%d topics=%d chapters=%d\n", res.Subjects, res.Topics, res.Chapters)
}
