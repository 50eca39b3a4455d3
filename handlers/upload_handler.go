package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"

	config "github.com/skillswap/skillswap/configs"
	"github.com/skillswap/skillswap/errs"
)

const uploadFolder = "skillswap_profiles"

// GenerateUploadSignature creates a secure signature for a direct
// profile-photo upload from the browser. The core never touches the bytes;
// it stores the URL Cloudinary hands back, verbatim.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return errs.E(errs.Internal, "failed to initialize Cloudinary", err)
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return errs.E(errs.Internal, "failed to parse Cloudinary URL", err)
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: uploadFolder,
	})
	if err != nil {
		return errs.E(errs.Internal, "failed to prepare signature params", err)
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return errs.E(errs.Internal, "failed to sign upload params", err)
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    uploadFolder,
	})
}
