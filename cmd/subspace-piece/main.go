// Subspace Piece - archive recorded history into pieces and verify them
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YFiN99/subspace/archiver"
	"github.com/YFiN99/subspace/log"
	"github.com/YFiN99/subspace/pieces"
	"github.com/YFiN99/subspace/storage"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "subspace-piece",
		Short: "Subspace piece archiver and verifier",
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		dataPath     string
		inputPath    string
		segmentIndex uint64
		pieceIndex   uint64
		logLevel     string
		debug        string
	)

	rootCmd.PersistentFlags().StringVar(&dataPath, "datapath", "", "piece store path (in-memory if empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&debug, "debug", "", "comma-separated list of log modules to enable")

	var archiveCmd = &cobra.Command{
		Use:   "archive",
		Short: "Archive a file of recorded history into stored pieces",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger(logLevel)
			log.EnableModules(debug)

			history, err := os.ReadFile(inputPath)
			if err != nil {
				fmt.Printf("Failed to read input %s: %v\n", inputPath, err)
				os.Exit(1)
			}

			store, err := storage.NewPieceStore(dataPath)
			if err != nil {
				fmt.Printf("Failed to open piece store: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()

			a, err := archiver.NewArchiver()
			if err != nil {
				fmt.Printf("Failed to initialize archiver: %v\n", err)
				os.Exit(1)
			}

			segments := (len(history) + pieces.RecordedHistorySegmentSize - 1) / pieces.RecordedHistorySegmentSize
			fmt.Printf("Archiving %d bytes into %d segment(s)\n", len(history), segments)
			for i := 0; i < segments; i++ {
				segment := new(pieces.RecordedHistorySegment)
				copy(segment[:], history[i*pieces.RecordedHistorySegmentSize:])

				flat, commitment, err := a.ArchiveSegment(segment)
				if err != nil {
					fmt.Printf("Failed to archive segment %d: %v\n", i, err)
					os.Exit(1)
				}
				if err := store.PutSegment(uint64(i), flat, &commitment); err != nil {
					fmt.Printf("Failed to store segment %d: %v\n", i, err)
					os.Exit(1)
				}
				fmt.Printf("  segment %d: %d pieces, commitment %x\n", i, len(flat), commitment.Bytes())
			}
			fmt.Printf("Done\n")
		},
	}
	archiveCmd.Flags().StringVar(&inputPath, "input", "", "file holding the recorded history to archive")
	archiveCmd.MarkFlagRequired("input")

	var inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print a stored piece's commitment and witness",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger(logLevel)
			log.EnableModules(debug)

			store, err := storage.NewPieceStore(dataPath)
			if err != nil {
				fmt.Printf("Failed to open piece store: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()

			piece, err := store.GetPiece(pieceIndex)
			if err != nil {
				fmt.Printf("Failed to load piece %d: %v\n", pieceIndex, err)
				os.Exit(1)
			}
			fmt.Printf("Piece %d\n", pieceIndex)
			fmt.Printf("  record[0..32]: %x\n", piece.Record()[:32])
			fmt.Printf("  commitment:    %x\n", piece.Commitment().Bytes())
			fmt.Printf("  witness:       %x\n", piece.Witness().Bytes())
		},
	}
	inspectCmd.Flags().Uint64Var(&pieceIndex, "piece", 0, "global piece index")

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a stored piece against its segment commitment",
		Run: func(cmd *cobra.Command, args []string) {
			log.InitLogger(logLevel)
			log.EnableModules(debug)

			store, err := storage.NewPieceStore(dataPath)
			if err != nil {
				fmt.Printf("Failed to open piece store: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()

			piece, err := store.GetPiece(pieceIndex)
			if err != nil {
				fmt.Printf("Failed to load piece %d: %v\n", pieceIndex, err)
				os.Exit(1)
			}
			segmentIndex = pieceIndex / pieces.PiecesInSegment
			commitment, err := store.GetSegmentCommitment(segmentIndex)
			if err != nil {
				fmt.Printf("Failed to load segment %d commitment: %v\n", segmentIndex, err)
				os.Exit(1)
			}

			a, err := archiver.NewArchiver()
			if err != nil {
				fmt.Printf("Failed to initialize archiver: %v\n", err)
				os.Exit(1)
			}
			position := int(pieceIndex % pieces.PiecesInSegment)
			if err := a.VerifyPiece(piece, position, &commitment); err != nil {
				fmt.Printf("Piece %d FAILED verification: %v\n", pieceIndex, err)
				os.Exit(1)
			}
			fmt.Printf("Piece %d verified against segment %d\n", pieceIndex, segmentIndex)
		},
	}
	verifyCmd.Flags().Uint64Var(&pieceIndex, "piece", 0, "global piece index")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("subspace-piece %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	rootCmd.AddCommand(archiveCmd, inspectCmd, verifyCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
