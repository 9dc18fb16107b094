package pieces

// RecordedHistorySegment is one segment of recorded chain history before
// archiving: exactly RawRecordsInSegment raw records, contiguous.
type RecordedHistorySegment [RecordedHistorySegmentSize]byte

// Bytes returns the segment as a byte slice backed by the same memory.
func (s *RecordedHistorySegment) Bytes() []byte {
	return s[:]
}

// RawRecords returns views of the raw records making up the segment. The
// views alias the segment memory; writing through them mutates the segment.
func (s *RecordedHistorySegment) RawRecords() []*RawRecord {
	records := make([]*RawRecord, RawRecordsInSegment)
	for i := range records {
		records[i] = (*RawRecord)(s[i*RawRecordSize : (i+1)*RawRecordSize])
	}
	return records
}
