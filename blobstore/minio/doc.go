// Package minio serves catalog files from MinIO and other S3-compatible
// object stores (Ceph, Garage, SeaweedFS) through the MinIO client.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "gaia", "dr2/")
//	cat, err := gaia2read.Open(ctx, store)
//
// # Features
//
//   - Ranged GETs for record probes and zone scans
//   - Single PutObject for publishing built catalogs
//   - No AWS SDK dependency
package minio
