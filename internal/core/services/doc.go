// Package services implements the core business logic of Tailor.
//
// Services implement the driving ports and depend only on driven ports,
// so every adapter can be swapped or faked in tests. The résumé pipeline is:
//
//	IngestService    text -> chunks -> vectors -> DocumentStore
//	RetrievalService query -> vector -> ranked chunks
//	Generator        job description + ranked chunks -> cited bullets
//	TailorService    Retrieval + Generator for one request
package services
