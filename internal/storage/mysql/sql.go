package mysql

const upsertUniversitySQL = `
INSERT INTO universities
  (id, name, name_arabic, emirate, city, country, institution_type,
   accreditation_status, ranking, ranking_tier, rating, review_count,
   website, caa_guid, total_programs, bachelor_programs, master_programs,
   scholarships_available, sources)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name                   = VALUES(name),
  name_arabic            = VALUES(name_arabic),
  emirate                = VALUES(emirate),
  city                   = VALUES(city),
  country                = VALUES(country),
  institution_type       = VALUES(institution_type),
  accreditation_status   = VALUES(accreditation_status),
  ranking                = VALUES(ranking),
  ranking_tier           = VALUES(ranking_tier),
  rating                 = VALUES(rating),
  review_count           = VALUES(review_count),
  website                = VALUES(website),
  caa_guid               = VALUES(caa_guid),
  total_programs         = VALUES(total_programs),
  bachelor_programs      = VALUES(bachelor_programs),
  master_programs        = VALUES(master_programs),
  scholarships_available = VALUES(scholarships_available),
  sources                = VALUES(sources),
  updated_at             = CURRENT_TIMESTAMP
`

const upsertCourseSQL = `
INSERT INTO courses
  (id, name, university_id, university_name, degree_level, field_of_study,
   duration, duration_months, study_mode, tuition_fee, tuition_fee_value,
   tuition_currency, tuition_period, language, accredited, start_dates,
   application_deadline, source, url)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name                 = VALUES(name),
  university_id        = VALUES(university_id),
  university_name      = VALUES(university_name),
  degree_level         = VALUES(degree_level),
  field_of_study       = VALUES(field_of_study),
  duration             = VALUES(duration),
  duration_months      = VALUES(duration_months),
  study_mode           = VALUES(study_mode),
  tuition_fee          = VALUES(tuition_fee),
  tuition_fee_value    = VALUES(tuition_fee_value),
  tuition_currency     = VALUES(tuition_currency),
  tuition_period       = VALUES(tuition_period),
  language             = VALUES(language),
  accredited           = VALUES(accredited),
  start_dates          = VALUES(start_dates),
  application_deadline = VALUES(application_deadline),
  source               = VALUES(source),
  url                  = VALUES(url),
  updated_at           = CURRENT_TIMESTAMP
`

// One row per country code; reruns replace the profile in place.
const upsertCountryProfileSQL = `
INSERT INTO country_profiles
  (code, name, currency, cost_of_living, tuition_range,
   total_universities, total_courses)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name               = VALUES(name),
  currency           = VALUES(currency),
  cost_of_living     = VALUES(cost_of_living),
  tuition_range      = VALUES(tuition_range),
  total_universities = VALUES(total_universities),
  total_courses      = VALUES(total_courses),
  updated_at         = CURRENT_TIMESTAMP
`

const insertRunLogSQL = `
INSERT INTO scraping_logs
  (source, status, universities_scraped, courses_scraped, errors,
   started_at, completed_at, duration_seconds)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`
