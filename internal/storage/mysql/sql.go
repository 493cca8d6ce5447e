package mysql

const selectTripsSQL = `
SELECT
  id, agency_id, title, slug, destination, price,
  start_date, end_date, category, tags, itinerary, boarding,
  active, deleted, views, sales, capacity, lat, lon,
  rating, rating_count, created_at
FROM trips
ORDER BY created_at, id
`

const selectAgenciesSQL = `
SELECT
  id, owner_user_id, name, slug, active, deleted,
  plan, plan_status, plan_expires_at,
  email, phone, city, logo_url, created_at
FROM agencies
ORDER BY created_at, id
`

const selectClientsSQL = `
SELECT id, name, email, phone, avatar_url, status, deleted, created_at
FROM clients
ORDER BY created_at, id
`

const selectFavoritesSQL = `
SELECT client_id, trip_id FROM client_favorites
`

const selectReviewsSQL = `
SELECT id, agency_id, client_id, booking_id, trip_id,
       rating, comment, tags, response, created_at
FROM reviews
ORDER BY created_at, id
`

const selectBroadcastsSQL = `
SELECT id, title, body, roles, created_at
FROM broadcasts
ORDER BY created_at, id
`

const selectActivitySQL = `
SELECT id, actor_id, action, entity_id, detail, created_at
FROM activity_log
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const selectSettingsSQL = `
SELECT id, commission_rate, support_email, maintenance_mode, featured_trips
FROM platform_settings
WHERE id = ?
`

const selectBookingsByClientSQL = `
SELECT id, trip_id, client_id, status, total_price, seats,
       voucher_code, payment_method, created_at
FROM bookings
WHERE client_id = ?
ORDER BY created_at DESC, id DESC
`

const selectBookingsByTripsPrefix = `
SELECT id, trip_id, client_id, status, total_price, seats,
       voucher_code, payment_method, created_at
FROM bookings
WHERE trip_id IN (`

const selectTripImagesSQL = `
SELECT url FROM trip_images WHERE trip_id = ? ORDER BY position, url
`

const selectPassengersSQL = `
SELECT name, document, age FROM booking_passengers
WHERE booking_id = ? ORDER BY position
`

const selectInteractionsSQL = `
SELECT message_id, user_id, is_read, liked, deleted_for_me, updated_at
FROM broadcast_interactions
WHERE user_id = ?
`

const insertTripSQL = `
INSERT INTO trips
  (id, agency_id, title, slug, destination, price,
   start_date, end_date, category, tags, itinerary, boarding,
   active, deleted, views, sales, capacity, lat, lon,
   rating, rating_count, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`

const purgeTripSQL = `DELETE FROM trips WHERE id = ?`

const insertBookingSQL = `
INSERT INTO bookings
  (id, trip_id, client_id, status, total_price, seats,
   voucher_code, payment_method, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
`

const insertPassengerSQL = `
INSERT INTO booking_passengers (booking_id, position, name, document, age)
VALUES (?,?,?,?,?)
`

// Conflict key: UNIQUE (agency_id, client_id). A resubmission replaces
// the pair's row instead of erroring.
const upsertReviewSQL = `
INSERT INTO reviews
  (id, agency_id, client_id, booking_id, trip_id, rating, comment, tags, response, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  booking_id = VALUES(booking_id),
  trip_id    = VALUES(trip_id),
  rating     = VALUES(rating),
  comment    = VALUES(comment),
  tags       = VALUES(tags),
  response   = VALUES(response)
`

const respondReviewSQL = `UPDATE reviews SET response = ? WHERE id = ?`

const insertFavoriteSQL = `
INSERT IGNORE INTO client_favorites (client_id, trip_id) VALUES (?, ?)
`

const deleteFavoriteSQL = `
DELETE FROM client_favorites WHERE client_id = ? AND trip_id = ?
`

const upsertInteractionSQL = `
INSERT INTO broadcast_interactions
  (message_id, user_id, is_read, liked, deleted_for_me, updated_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  is_read        = VALUES(is_read),
  liked          = VALUES(liked),
  deleted_for_me = VALUES(deleted_for_me),
  updated_at     = VALUES(updated_at)
`

const appendActivitySQL = `
INSERT INTO activity_log (id, actor_id, action, entity_id, detail, created_at)
VALUES (?,?,?,?,?,?)
`

// Atomic counter RPCs.
const incrementViewsSQL = `UPDATE trips SET views = views + 1 WHERE id = ?`
const incrementSalesSQL = `UPDATE trips SET sales = sales + ? WHERE id = ?`

const insertUploadSQL = `
INSERT INTO uploads (name, data, created_at) VALUES (?,?,?)
ON DUPLICATE KEY UPDATE data = VALUES(data)
`

// Seed-only upserts, used by cmd/seeder.
const upsertAgencySQL = `
INSERT INTO agencies
  (id, owner_user_id, name, slug, active, deleted,
   plan, plan_status, plan_expires_at,
   email, phone, city, logo_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  active          = VALUES(active),
  deleted         = VALUES(deleted),
  plan            = VALUES(plan),
  plan_status     = VALUES(plan_status),
  plan_expires_at = VALUES(plan_expires_at),
  email           = VALUES(email),
  phone           = VALUES(phone),
  city            = VALUES(city),
  logo_url        = VALUES(logo_url)
`

const upsertClientSQL = `
INSERT INTO clients
  (id, name, email, phone, avatar_url, status, deleted, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  email      = VALUES(email),
  phone      = VALUES(phone),
  avatar_url = VALUES(avatar_url),
  status     = VALUES(status),
  deleted    = VALUES(deleted)
`

const upsertBroadcastSQL = `
INSERT INTO broadcasts (id, title, body, roles, created_at)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  title = VALUES(title),
  body  = VALUES(body),
  roles = VALUES(roles)
`

const upsertSettingsSQL = `
INSERT INTO platform_settings
  (id, commission_rate, support_email, maintenance_mode, featured_trips)
VALUES (?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  commission_rate  = VALUES(commission_rate),
  support_email    = VALUES(support_email),
  maintenance_mode = VALUES(maintenance_mode),
  featured_trips   = VALUES(featured_trips)
`
