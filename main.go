package main

import (
	"blogapi/auth"
	"blogapi/blob"
	"blogapi/config"
	"blogapi/handler"
	"blogapi/store"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "blogapi",
		Short:         "Blog posts and users behind API Gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup()
			if err != nil {
				return err
			}
			lambda.Start(app.handler.Dispatch)
			return nil
		},
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		log.WithField("err", err).Fatal("Could not start")
	}
}

type app struct {
	cfg     *config.Config
	handler *handler.Handler
	tokens  *auth.Tokens
}

// setup loads the configuration and builds the handler with its clients. A
// missing required setting is fatal.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)

	tokens, err := auth.NewTokens(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewHasher(cfg.Password.Scheme, cfg.Password.Secret)
	if err != nil {
		return nil, err
	}

	var sess *session.Session
	awsSession := func() (*session.Session, error) {
		if sess != nil {
			return sess, nil
		}
		var err error
		sess, err = session.NewSession(&aws.Config{Region: aws.String(cfg.Blob.Region)})
		return sess, err
	}

	h := &handler.Handler{
		Tokens:               tokens,
		Passwords:            hasher,
		AllowSignupOverwrite: cfg.SignupAllowOverwrite,
		SignupDisabled:       !cfg.SignupOpen(),
		Log:                  log.StandardLogger(),
	}

	switch cfg.Storage.Driver {
	case "dynamodb":
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		ddb := store.NewDynamoDB(dynamodb.New(s), cfg.Storage.PostTable, cfg.Storage.UserTable)
		h.Posts, h.Users = ddb, ddb
	case "sqlite":
		db, err := store.OpenSQLite(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("Running database schema migrations...")
		if err := db.Migrate(); err != nil {
			return nil, err
		}
		h.Posts, h.Users = db, db
	case "memory":
		mem := store.NewMemory()
		h.Posts, h.Users = mem, mem
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Storage.Driver)
	}

	var objects blob.ObjectStore
	switch cfg.Blob.Driver {
	case "s3":
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		objects = blob.NewS3(s3.New(s), cfg.Blob.Bucket)
	default:
		objects = blob.NewMemory()
	}
	h.Images = blob.NewUploader(objects, cfg.Blob.Bucket, cfg.Blob.Region)

	log.WithFields(log.Fields{
		"env":   cfg.Env,
		"store": cfg.Storage.Driver,
		"blob":  cfg.Blob.Driver,
		"pid":   os.Getpid(),
	}).Debug("Handler ready")
	return &app{cfg: cfg, handler: h, tokens: tokens}, nil
}
