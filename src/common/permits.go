package common

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"rcm/src/lib"
	awslib "rcm/src/lib/aws"
	"rcm/src/services"

	"github.com/gosimple/slug"
	"github.com/yeqown/go-qrcode"
)

// QRPermits renders the move-in permit as a QR image, uploads it to the
// assets bucket and caches the presigned URL in redis. Security scans the
// code at the gate on move-in day.
type QRPermits struct{}

func NewQRPermits() *QRPermits {
	return &QRPermits{}
}

func (p *QRPermits) Generate(requestNumber string, userID uint) (string, services.Outcome) {
	filename := fmt.Sprintf("permit-%s", slug.Make(requestNumber))
	rd := lib.GetRedisClient()
	if rd != nil {
		if url, err := rd.Get(context.Background(), filename).Result(); err == nil && url != "" {
			return url, services.OutcomeOK
		}
	}

	qrc, err := qrcode.New(requestNumber)
	if err != nil {
		log.Printf("Could not generate qrcode for [%s]: %s\n", requestNumber, err.Error())
		return "", services.OutcomeFailed
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not read working directory: %s\n", err.Error())
		return "", services.OutcomeFailed
	}
	tempdir := os.Getenv("TEMP_DIR")
	filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.jpeg", filename))
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", services.OutcomeFailed
	}
	url, err := awslib.S3UploadAsset(filename, filepath)
	if err != nil {
		log.Printf("Error uploading permit to S3 bucket: %s\n", err.Error())
		return "", services.OutcomeFailed
	}
	if rd != nil {
		rd.SetEx(context.Background(), filename, *url, 2*time.Hour)
	}
	return *url, services.OutcomeOK
}
