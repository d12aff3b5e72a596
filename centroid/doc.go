// Package centroid computes per-scope mean vectors over message
// embeddings. A session centroid summarizes one conversation's semantic
// center; a project centroid summarizes all conversations in a project.
// Stored centroids are consumed read-only by query composition.
package centroid
