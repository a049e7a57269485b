// Package meetingservice implements board meetings inside the
// board-governance context: scheduling, member RSVPs, and meeting minutes
// with chair approval. Business rules live in application/domain layers;
// infrastructure stays behind ports and adapters.
package meetingservice
