package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"hrportal/internal/bootstrap"
	"hrportal/internal/config"
)

func main() {
	var (
		employeesFile = flag.String("employees", "", "员工档案 JSON 文件（必填）")
		dryRun        = flag.Bool("dry-run", false, "只校验文件，不写入存储")
	)
	flag.Parse()

	path := strings.TrimSpace(*employeesFile)
	if path == "" {
		log.Fatal("missing required flag: --employees")
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open employees file: %v", err)
	}
	defer f.Close()

	employees, leaves, err := parseEmployees(f)
	if err != nil {
		log.Fatalf("parse employees file: %v", err)
	}
	fmt.Printf("读取到 %d 名员工、%d 条假期记录\n", len(employees), len(leaves))
	if *dryRun {
		return
	}

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	rt, err := bootstrap.New(cfg, logger, nil)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer rt.Close()

	res, err := rt.Service.ImportEmployees(context.Background(), employees, leaves)
	if err != nil {
		log.Fatalf("import employees: %v", err)
	}
	fmt.Printf("已导入员工 %d 名、假期记录 %d 条，跳过已存在记录 %d 条（存储后端: %s）\n",
		res.Employees, res.Leaves, res.Skipped, cfg.Storage.Backend)
}
