package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jinzhu/configor"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFilePath string
	debugLogging   bool
	appConfig      AppConfig
	syncLock       sync.Mutex
)

var rootCmd = &cobra.Command{
	Use:   "s3publish",
	Short: "Publish static assets to an S3 bucket",
	Long: `s3publish synchronizes a local folder of static assets with an S3
bucket: it uploads only files that are missing or changed remotely,
optionally compressing eligible files, and can resolve public URLs for
uploaded assets or empty the bucket.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload missing or changed assets to the bucket",
	RunE:  runSync,
}

var emptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Delete every object in the bucket",
	RunE:  runEmpty,
}

var urlCmd = &cobra.Command{
	Use:   "url <relative-path>",
	Short: "Print the public URL for an asset path",
	Args:  cobra.ExactArgs(1),
	RunE:  runURL,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "configfile", "c", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging")
	rootCmd.MarkPersistentFlagRequired("configfile")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(emptyCmd)
	rootCmd.AddCommand(urlCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if debugLogging {
		log.SetLevel(log.DebugLevel)
	}
	if configErr := configor.Load(&appConfig, configFilePath); configErr != nil {
		return fmt.Errorf("%w: %v", ErrConfig, configErr)
	}

	return appConfig.Validate()
}

func runSync(cmd *cobra.Command, args []string) error {
	var notifier Notifier
	if appConfig.Notify.Topic != "" {
		snsNotifier, notifierErr := NewSNSNotifier(appConfig)
		if notifierErr != nil {
			return notifierErr
		}
		notifier = snsNotifier
	}

	runOnce := func() error {
		pass := NewUploadPass(appConfig, notifier)
		if connectErr := pass.Connect(); connectErr != nil {
			return connectErr
		}
		return pass.Run(&syncLock)
	}

	if appConfig.Interval <= 0 {
		return runOnce()
	}

	log.Info(fmt.Sprintf("Scheduling sync every %d seconds", appConfig.Interval))
	scheduler := gocron.NewScheduler(time.UTC)
	if _, scheduleErr := scheduler.Every(appConfig.Interval).Seconds().Do(func() {
		if passErr := runOnce(); passErr != nil {
			log.Warn(fmt.Sprintf("Scheduled pass error: %s", passErr))
		}
	}); scheduleErr != nil {
		return scheduleErr
	}
	scheduler.StartBlocking()

	return nil
}

func runEmpty(cmd *cobra.Command, args []string) error {
	client, clientErr := appConfig.ClientFromConfig(context.TODO())
	if clientErr != nil {
		return clientErr
	}

	bucket := appConfig.BucketName()
	deleted, emptyErr := client.EmptyBucket(bucket)
	if emptyErr != nil {
		return fmt.Errorf("%w: emptying bucket %s: %v", ErrStorage, bucket, emptyErr)
	}
	log.Info(fmt.Sprintf("Deleted %d objects from %s", deleted, bucket))

	return nil
}

func runURL(cmd *cobra.Command, args []string) error {
	resolved, resolveErr := resolveURL(appConfig, args[0])
	if resolveErr != nil {
		return resolveErr
	}
	fmt.Println(resolved)

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
