package mysql

const insertRunSQL = `
INSERT INTO analysis_runs
  (app_id, total_reviews, average_rating, median_rating, positive, negative, neutral, keywords, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; served by idx_runs_app_created.
const listRunsSQL = `
SELECT
  id,
  app_id,
  total_reviews,
  average_rating,
  median_rating,
  positive,
  negative,
  neutral,
  keywords,
  created_at
FROM analysis_runs
WHERE app_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`
