package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	deliverygrpc "github.com/playforge/updatedist/internal/delivery/grpc"
	"github.com/playforge/updatedist/pkg/hashutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const LIMIT = 5

type UploadProgress struct {
	mu          sync.RWMutex
	totalChunks int
	uploaded    int
	failed      int
	isCancelled bool
	startTime   time.Time
}

func (up *UploadProgress) IncrementUploaded() {
	up.mu.Lock()
	defer up.mu.Unlock()
	up.uploaded++
}

func (up *UploadProgress) IncrementFailed() {
	up.mu.Lock()
	defer up.mu.Unlock()
	up.failed++
}

func (up *UploadProgress) SetCancelled() {
	up.mu.Lock()
	defer up.mu.Unlock()
	up.isCancelled = true
}

func (up *UploadProgress) IsCancelled() bool {
	up.mu.RLock()
	defer up.mu.RUnlock()
	return up.isCancelled
}

func (up *UploadProgress) GetProgress() (uploaded, failed, total int) {
	up.mu.RLock()
	defer up.mu.RUnlock()
	return up.uploaded, up.failed, up.totalChunks
}

// expandRanges turns the closed [start,end] missing ranges StartUploadVersion
// returns into the flat list of offsets still needed.
func expandRanges(ranges []deliverygrpc.MissingRange) []int {
	var offsets []int
	for _, r := range ranges {
		for i := r.Start; i <= r.End; i++ {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func main() {
	server := flag.String("server", "localhost:50051", "gRPC server address")
	filePath := flag.String("file", "", "path to the file to upload")
	versionID := flag.String("version-id", "", "target version id")
	chunkSize := flag.Int64("chunk-size", 256*1024, "chunk size in bytes, must be a power of two in [16KiB, 512KiB]")
	flag.Parse()

	if *filePath == "" || *versionID == "" {
		log.Fatal("both -file and -version-id are required")
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("could not open file: %v\n", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		log.Fatalf("could not stat file: %v\n", err)
	}
	totalSize := stat.Size()

	hash, err := hashutil.SHA256File(*filePath)
	if err != nil {
		log.Fatalf("could not hash file: %v\n", err)
	}

	conn, err := grpc.NewClient(*server,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype("json")),
	)
	if err != nil {
		log.Fatalf("could not dial %s: %v\n", *server, err)
	}
	defer conn.Close()

	client := deliverygrpc.NewUpdateServiceClient(conn)
	ctx := context.Background()

	start, err := client.StartUploadVersion(ctx, &deliverygrpc.StartUploadVersionRequest{
		VersionID: *versionID,
		Hash:      hash,
		ChunkSize: *chunkSize,
		FileSize:  totalSize,
	})
	if err != nil {
		log.Fatalf("StartUploadVersion failed: %v\n", err)
	}

	offsets := expandRanges(start.MissingRanges)
	fmt.Printf("Server: %s\n", *server)
	fmt.Printf("File: %s (%d bytes)\n", filepath.Base(stat.Name()), totalSize)
	fmt.Printf("Upload ID: %s | Concurrent ID: %s\n", start.UploadID, start.ConcurrentID)
	fmt.Printf("Chunk size: %d bytes | Missing chunks: %d\n", *chunkSize, len(offsets))
	fmt.Println("Press Ctrl+C to cancel...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	sem := make(chan struct{}, LIMIT)
	var wg sync.WaitGroup
	progress := &UploadProgress{totalChunks: len(offsets), startTime: time.Now()}

	done := make(chan bool)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				uploaded, failed, total := progress.GetProgress()
				if uploaded+failed > 0 {
					fmt.Printf("\rProgress: %d/%d done, %d failed", uploaded, total, failed)
				}
			}
		}
	}()

	var finishedMu sync.Mutex
	finished := false

	for _, offset := range offsets {
		if progress.IsCancelled() {
			log.Println("\nUpload cancelled, no more chunks will be sent.")
			break
		}

		wg.Add(1)
		go func(offset int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if progress.IsCancelled() {
				return
			}

			begin := int64(offset) * (*chunkSize)
			end := begin + *chunkSize
			if end > totalSize {
				end = totalSize
			}
			buf := make([]byte, end-begin)
			if _, err := file.ReadAt(buf, begin); err != nil {
				log.Printf("\nchunk %d could not be read: %v\n", offset, err)
				progress.IncrementFailed()
				progress.SetCancelled()
				return
			}

			resp, err := client.UploadVersionChunk(ctx, &deliverygrpc.UploadVersionChunkRequest{
				UploadID:     start.UploadID,
				ConcurrentID: start.ConcurrentID,
				Offset:       offset,
				Data:         buf,
			})
			if err != nil {
				log.Printf("\nchunk %d upload failed: %v\n", offset, err)
				progress.IncrementFailed()
				progress.SetCancelled()
				return
			}

			if resp.Finished {
				finishedMu.Lock()
				finished = true
				finishedMu.Unlock()
			}
			progress.IncrementUploaded()
		}(offset)
	}

	waitCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		done <- true
		uploaded, failed, total := progress.GetProgress()
		fmt.Printf("\nUpload finished: %d/%d succeeded, %d failed\n", uploaded, total, failed)

		if failed > 0 {
			log.Println("upload incomplete due to chunk failures")
			return
		}

		finishedMu.Lock()
		allUploaded := finished || total == 0
		finishedMu.Unlock()
		if allUploaded {
			fmt.Println("Server reassembling the file; poll FetchUploads for state.")
		}

	case <-sigCh:
		progress.SetCancelled()
		done <- true
		fmt.Println("\nCancelling upload...")

		if _, err := client.CancelUpload(ctx, &deliverygrpc.CancelUploadRequest{UploadID: start.UploadID}); err != nil {
			log.Fatalf("CancelUpload failed: %v\n", err)
		}
		fmt.Println("Upload cancelled.")
	}
}
