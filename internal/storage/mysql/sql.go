package mysql

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO venue_reviews\n  (place_id, author, profile_photo_url, rating, `text`, relative_time, review_time, lang)\nVALUES "

// COALESCE keeps the stored value when the new one is NULL.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  profile_photo_url = COALESCE(VALUES(profile_photo_url), venue_reviews.profile_photo_url),\n" +
	"  rating            = VALUES(rating),\n" +
	"  `text`            = COALESCE(VALUES(`text`), venue_reviews.`text`),\n" +
	"  relative_time     = COALESCE(VALUES(relative_time), venue_reviews.relative_time),\n" +
	"  lang              = COALESCE(VALUES(lang), venue_reviews.lang),\n" +
	"  fetched_at        = CURRENT_TIMESTAMP\n"

const insertMissSQL = `
INSERT INTO ingest_misses (place_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; review_time ties fall back to insertion order.
const listReviewsSQL = `
SELECT
  place_id,
  author,
  profile_photo_url,
  rating,
  ` + "`text`" + `,
  relative_time,
  review_time,
  lang
FROM venue_reviews
WHERE place_id = ?
ORDER BY review_time DESC, id ASC
LIMIT ?
`
