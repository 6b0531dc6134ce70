package services

import (
	"campus-server/utils/errors"
	"io"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// ImageService stores profile and event images as GridFS blobs.
type ImageService struct {
	bucket *gridfs.Bucket
}

func NewImageService(db *mongo.Database) (*ImageService, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, err
	}
	return &ImageService{bucket: bucket}, nil
}

// Upload streams an image into GridFS and returns its id.
func (s *ImageService) Upload(filename string, r io.Reader) (primitive.ObjectID, error) {
	uploadStream, err := s.bucket.OpenUploadStream(filename)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "STORAGE_ERROR", "Error storing image", http.StatusInternalServerError)
	}
	defer uploadStream.Close()

	if _, err := io.Copy(uploadStream, r); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "STORAGE_ERROR", "Error storing image", http.StatusInternalServerError)
	}
	return uploadStream.FileID.(primitive.ObjectID), nil
}

// Download streams the blob with the given hex id to w.
func (s *ImageService) Download(imageID string, w io.Writer) error {
	objID, err := primitive.ObjectIDFromHex(imageID)
	if err != nil {
		return errors.NewValidation("Invalid image id format")
	}

	if _, err := s.bucket.DownloadToStream(objID, w); err != nil {
		if err == gridfs.ErrFileNotFound {
			return errors.NewNotFound("Image not found")
		}
		return errors.Wrap(err, "STORAGE_ERROR", "Error retrieving image", http.StatusInternalServerError)
	}
	return nil
}

// DeleteQuietly removes a blob, logging rather than surfacing failures.
// Image cleanup is best-effort; a stale blob never blocks the caller.
func (s *ImageService) DeleteQuietly(imageID primitive.ObjectID) {
	if imageID.IsZero() {
		return
	}
	if err := s.bucket.Delete(imageID); err != nil && err != gridfs.ErrFileNotFound {
		log.Printf("Failed to delete image %s: %v", imageID.Hex(), err)
	}
}
