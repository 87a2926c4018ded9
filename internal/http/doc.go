// Package http provides optional HTTP adapters for container-aware
// localization summaries.
//
// Routes mount under /typo3/ajax by default:
//   - Summary: GET /records/localize-summary?pageId=&destLanguageId=&languageId=
//   - Rebuild a host payload: POST /records/rebuild
//   - Container columns: GET /containers/columns
//
// Host applications can register handlers on their own mux/router as needed.
package http
