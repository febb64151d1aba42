// Package gaia2read queries a disk-resident copy of the Gaia DR2 catalog.
//
// The catalog is a set of immutable files: 900 declination zones of
// RA-sorted records, nine Gaia ID partitions and three cross-reference
// tables linking Gaia, 2MASS and HAT identifiers. A Catalog reads them
// through a blobstore.BlobStore, so the same catalog can live on a local
// disk (memory-mapped), in S3 or in MinIO.
//
// # Quick Start
//
//	ctx := context.Background()
//	cat, _ := gaia2read.OpenLocal("/data/gaia")
//	defer cat.Close()
//
//	// Stars in a 0.1 degree box around (ra, dec), at epoch 2024.0.
//	epoch := 2024.0
//	stars, _ := cat.StarPosSearch(ctx, gaia2read.Query{
//	    RA: 10.2, Dec: 5.0, Size: 0.1, Epoch: &epoch,
//	}, nil)
//
//	// Identifier lookups.
//	star, _ := cat.StarFromID(ctx, 2448271877009859456, nil)
//	gaiaID, _ := cat.ToGaiaID(ctx, "2MASS J00000019-1924498", model.TMass)
//
// # Remote Catalogs
//
//	store := s3.NewStore(s3Client, "my-bucket", "gaia/")
//	cat, _ := gaia2read.Open(ctx, store,
//	    gaia2read.WithBlockCache(256<<20),
//	    gaia2read.WithIORateLimit(50<<20),
//	    gaia2read.WithParallelism(8),
//	)
//
// Every call opens the files it needs and closes them before it returns;
// a Catalog holds no file handles between calls and is safe for concurrent
// use.
package gaia2read
