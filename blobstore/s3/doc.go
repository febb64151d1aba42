// Package s3 serves catalog files from Amazon S3.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "gaia-dr2", "catalog/")
//
//	cat, err := gaia2read.Open(ctx, store)
//
// # Features
//
//   - Range reads for record probes and zone scans
//   - Multipart uploads through the SDK upload manager when publishing
//   - Automatic pagination for listing
//   - Configurable key prefix
package s3
