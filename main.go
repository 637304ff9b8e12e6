package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/Phechr2025/Bio-Shop-VPN-information/bootstrap"
	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web"
)

// runWebServer 启动指定版本的 Web 服务并进入信号循环
func runWebServer(variant web.Variant) {
	app, err := bootstrap.Initialize()
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}

	runtime := bootstrap.NewRuntime(app, variant)
	if err := runtime.StartWebServer(); err != nil {
		log.Fatalf("Error starting web server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	setupSignalHandler(sigCh)

	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting servers...")
			if err := runtime.Restart(); err != nil {
				log.Fatalf("Error restarting: %v", err)
			}

		default:
			runtime.StopAll()
			_ = database.CloseDB()
			_ = logger.Close()
			log.Println("Shutting down servers.")
			return
		}
	}
}

func main() {
	if len(os.Args) < 2 {
		runWebServer(web.VariantPanel)
		return
	}

	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "show version")

	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	var variantName string
	runCmd.StringVar(&variantName, "variant", string(web.VariantPanel), "Which lookup site to serve: panel or scrape")

	scrapeCmd := flag.NewFlagSet("scrape", flag.ExitOnError)

	settingCmd := flag.NewFlagSet("setting", flag.ExitOnError)
	var reset bool
	var show bool
	var panelURL string
	var username string
	var password string
	var subTemplate string
	var scrapeURL string
	settingCmd.BoolVar(&reset, "reset", false, "Reset stored panel and subscription settings to defaults")
	settingCmd.BoolVar(&show, "show", false, "Display current settings")
	settingCmd.StringVar(&panelURL, "panelUrl", "", "Set 3x-ui panel base URL")
	settingCmd.StringVar(&username, "username", "", "Set 3x-ui login username")
	settingCmd.StringVar(&password, "password", "", "Set 3x-ui login password")
	settingCmd.StringVar(&subTemplate, "subTemplate", "", "Set subscription URL template, e.g. http://host:2096/sub/{email}")
	settingCmd.StringVar(&scrapeURL, "scrapeUrl", "", "Set subscription page base URL for the scrape site")

	oldUsage := flag.Usage
	flag.Usage = func() {
		oldUsage()
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("    run            run lookup site (-variant panel|scrape)")
		fmt.Println("    scrape         run subscription page lookup site")
		fmt.Println("    setting        set settings")
	}

	flag.Parse()
	if showVersion {
		fmt.Println(config.GetVersion())
		return
	}

	switch os.Args[1] {
	case "run":
		if err := runCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println(err)
			return
		}
		variant, err := web.ParseVariant(variantName)
		if err != nil {
			fmt.Println(err)
			return
		}
		runWebServer(variant)
	case "scrape":
		if err := scrapeCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println(err)
			return
		}
		runWebServer(web.VariantScrape)
	case "setting":
		if err := settingCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println(err)
			return
		}
		if reset {
			resetSetting()
		} else {
			updateSetting(panelURL, username, password, subTemplate, scrapeURL)
		}
		if show {
			showSetting()
		}
	default:
		fmt.Println("Invalid subcommands")
		fmt.Println()
		runCmd.Usage()
		fmt.Println()
		settingCmd.Usage()
	}
}
