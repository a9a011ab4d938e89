package report

import "html/template"

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>pipeline-lab report</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.3rem; }
.chart { margin: 1rem 0; }
.summary { font-size: 0.9rem; color: #555; }
svg { background: #fafafa; border: 1px solid #eee; }
</style>
</head>
<body>
<h1>B2B pipeline analysis</h1>
<p class="summary">Win-rate curves are Kaplan-Meier estimates over deal age;
still-open deals are censored. Shaded areas are pointwise confidence bands.
Simulated revenue is a Monte Carlo resampling of historical deal sizes.</p>
<div id="root"></div>
<script>window.__DATA__ = {{.Payload}};</script>
<script>{{.Script}}</script>
</body>
</html>
`))

// plotScript draws step curves and histograms as inline SVG. It is kept
// readable here and minified into the page at render time.
const plotScript = `
(function () {
  var data = window.__DATA__;
  var root = document.getElementById('root');

  function el(tag, attrs, parent) {
    var ns = 'http://www.w3.org/2000/svg';
    var node = (tag === 'div' || tag === 'h2' || tag === 'p')
      ? document.createElement(tag)
      : document.createElementNS(ns, tag);
    for (var k in attrs) node.setAttribute(k, attrs[k]);
    if (parent) parent.appendChild(node);
    return node;
  }

  function chart(parent, width, height) {
    return el('svg', { width: width, height: height, class: 'chart' }, parent);
  }

  function scale(domainMax, rangeMax) {
    return function (v) { return domainMax === 0 ? 0 : (v / domainMax) * rangeMax; };
  }

  function stepPath(points, x, y, height, pick) {
    var d = '';
    for (var i = 0; i < points.length; i++) {
      var px = x(points[i].period), py = height - y(pick(points[i]));
      d += (i === 0 ? 'M' : 'L') + px + ' ' + py;
      if (i + 1 < points.length) d += 'L' + x(points[i + 1].period) + ' ' + py;
    }
    return d;
  }

  function drawCurve(parent, series, pick, lo, hi, color) {
    var w = 900, h = 220, maxP = series[series.length - 1].period;
    var svg = chart(parent, w, h);
    var x = scale(maxP, w - 20), y = scale(1, h - 20);
    if (lo && hi) {
      var band = '';
      for (var i = 0; i < series.length; i++)
        band += (i === 0 ? 'M' : 'L') + x(series[i].period) + ' ' + (h - 10 - y(hi(series[i])));
      for (var j = series.length - 1; j >= 0; j--)
        band += 'L' + x(series[j].period) + ' ' + (h - 10 - y(lo(series[j])));
      el('path', { d: band + 'Z', fill: color, opacity: 0.12 }, svg);
    }
    el('path', {
      d: stepPath(series, x, function (v) { return y(v) - 10; }, h, pick),
      stroke: color, fill: 'none', 'stroke-width': 1.5
    }, svg);
  }

  function drawHistogram(parent, hist, color) {
    var w = 900, h = 160, svg = chart(parent, w, h);
    var max = Math.max.apply(null, hist.counts);
    var y = scale(max, h - 10);
    var barW = (w - 10) / hist.counts.length;
    for (var i = 0; i < hist.counts.length; i++) {
      var bh = y(hist.counts[i]);
      el('rect', { x: 5 + i * barW, y: h - bh - 5, width: barW - 1, height: bh, fill: color }, svg);
    }
  }

  data.products.forEach(function (p) {
    var section = el('div', {}, root);
    el('h2', {}, section).textContent = 'Product ' + p.product;

    if (p.win_rate && p.win_rate.length) {
      el('p', {}, section).textContent =
        'Win rate by ' + data.unit + 's since opening (' + p.win_rate.length + ' periods)';
      drawCurve(section, p.win_rate,
        function (v) { return v.win_rate; },
        function (v) { return v.ci_low; },
        function (v) { return v.ci_high; },
        '#1f77b4');
    }
    if (p.conditional && p.conditional.length) {
      el('p', {}, section).textContent =
        'Chance of closing within the next ' + data.look_ahead + ' ' + data.unit + 's, given still open';
      drawCurve(section, p.conditional,
        function (v) { return v.conditional_probability; }, null, null, '#ff7f0e');
    }
    if (p.deal_histogram) {
      el('p', {}, section).textContent =
        p.deal_count + ' historical deals, mean ' + p.deal_mean + ', median ' + p.deal_median;
      drawHistogram(section, p.deal_histogram, '#2ca02c');
    }
    if (p.simulated_histogram && p.simulation) {
      el('p', {}, section).textContent =
        'Simulated revenue across ' + p.simulation.futures + ' futures of ' +
        p.simulation.deals_per_future + ' deals: P10 ' + Math.round(p.simulation.percentile_10) +
        ', median ' + Math.round(p.simulation.median) + ', P90 ' + Math.round(p.simulation.percentile_90);
      drawHistogram(section, p.simulated_histogram, '#9467bd');
    }
  });
})();
`
