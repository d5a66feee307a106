package web

// Single-page dashboard: order ticket, live portfolio table and a trade feed
// driven by the SSE stream.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Paperdesk</title>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Press+Start+2P&family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
      --gain:#1b9aaa;
      --loss:#d7263d;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:flex-start;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    body::before {
      content:'';
      position:fixed;
      inset:0;
      background:
        linear-gradient(90deg, rgba(0,0,0,.02) 1px, transparent 1px),
        linear-gradient(rgba(0,0,0,.02) 1px, transparent 1px);
      background-size:12px 12px;
      pointer-events:none;
    }
    #app {
      width:min(1280px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      position:relative;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:grid;
      grid-template-columns:1fr 340px;
      gap:2rem;
    }
    #app::after {
      content:'';
      position:absolute;
      inset:8px;
      border:1px dashed rgba(0,0,0,.15);
      pointer-events:none;
    }
    .main-content { display:flex; flex-direction:column; gap:1.8rem; }
    header { display:flex; justify-content:space-between; align-items:flex-start; gap:1rem; }
    .eyebrow {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      margin:0;
    }
    .status {
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:2px solid var(--ink);
      padding:.4rem .9rem;
      background:#ffffff;
      box-shadow:4px 4px 0 rgba(0,0,0,.15);
    }
    .summary-grid {
      display:grid;
      grid-template-columns:repeat(auto-fit, minmax(200px, 1fr));
      gap:1rem;
    }
    .stat {
      border:3px solid var(--ink);
      padding:1.1rem;
      background:#fff;
      box-shadow:6px 6px 0 rgba(0,0,0,.12);
    }
    .stat .label {
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      color:var(--ink-mid);
    }
    .stat .value {
      margin-top:.7rem;
      font-size:1.4rem;
      font-weight:700;
      letter-spacing:.06em;
    }
    .gain { color:var(--gain); }
    .loss { color:var(--loss); }
    .panel {
      border:3px solid var(--ink);
      padding:1.4rem;
      background:#fff;
      box-shadow:8px 8px 0 rgba(0,0,0,.15);
    }
    .panel h2 {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.15em;
      margin:0 0 1rem 0;
      padding-bottom:.8rem;
      border-bottom:2px solid var(--ink);
    }
    table { width:100%; border-collapse:collapse; font-size:.72rem; }
    th {
      text-align:left;
      text-transform:uppercase;
      letter-spacing:.1em;
      font-size:.55rem;
      color:var(--ink-mid);
      padding:.4rem .5rem;
      border-bottom:1px dashed var(--ink-soft);
    }
    td { padding:.5rem; border-bottom:1px dashed rgba(0,0,0,.08); }
    td.num, th.num { text-align:right; }
    .empty-state {
      border:2px dashed var(--ink-soft);
      padding:1.6rem;
      text-align:center;
      font-size:.72rem;
      letter-spacing:.12em;
      text-transform:uppercase;
      color:var(--ink-mid);
    }
    form.ticket { display:flex; flex-wrap:wrap; gap:.8rem; align-items:flex-end; }
    .field { display:flex; flex-direction:column; gap:.35rem; }
    .field label {
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.15em;
      color:var(--ink-mid);
    }
    .field input, .field select {
      font-family:inherit;
      font-size:.8rem;
      border:2px solid var(--ink);
      background:#fff;
      padding:.5rem .6rem;
      width:9rem;
    }
    button {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:3px solid var(--ink);
      background:#fff;
      padding:.8rem 1.2rem;
      cursor:pointer;
      box-shadow:4px 4px 0 rgba(0,0,0,.2);
    }
    button:active { transform:translate(2px,2px); box-shadow:2px 2px 0 rgba(0,0,0,.2); }
    button.danger { border-color:var(--loss); color:var(--loss); }
    #ticketError {
      width:100%;
      font-size:.65rem;
      color:var(--loss);
      min-height:1rem;
    }
    .trade-feed {
      display:flex;
      flex-direction:column;
      gap:.8rem;
      max-height:calc(100vh - 8rem);
      overflow-y:auto;
    }
    .trade-card {
      border:2px solid var(--ink);
      padding:.8rem;
      background:#fff;
      box-shadow:4px 4px 0 rgba(0,0,0,.12);
      font-size:.68rem;
      line-height:1.5;
    }
    .trade-side { font-weight:700; text-transform:uppercase; letter-spacing:.1em; }
    .trade-side.buy { color:var(--gain); }
    .trade-side.sell { color:var(--loss); }
    .trade-time { float:right; font-size:.58rem; color:var(--ink-mid); }
    .sidebar-title {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.6rem;
      text-transform:uppercase;
      letter-spacing:.15em;
      margin:0 0 1rem 0;
      padding-bottom:.8rem;
      border-bottom:2px solid var(--ink);
    }
    @media (max-width:760px) {
      body { padding:1rem; }
      #app { padding:1.2rem; grid-template-columns:1fr; }
      .trade-feed { max-height:360px; }
    }
  </style>
</head>
<body>
  <div id="app">
    <div class="main-content">
      <header>
        <p class="eyebrow">paperdesk</p>
        <div id="sse-status" class="status">Connecting…</div>
      </header>
      <section class="summary-grid">
        <div class="stat"><div class="label">Portfolio value</div><div id="totalValue" class="value">—</div></div>
        <div class="stat"><div class="label">Unrealized P/L</div><div id="totalPL" class="value">—</div></div>
        <div class="stat"><div class="label">P/L %</div><div id="totalPLPercent" class="value">—</div></div>
      </section>
      <section class="panel">
        <h2>Order ticket</h2>
        <form id="ticket" class="ticket">
          <div class="field">
            <label for="side">Side</label>
            <select id="side" name="side">
              <option value="buy">Buy</option>
              <option value="sell">Sell</option>
            </select>
          </div>
          <div class="field">
            <label for="symbol">Symbol</label>
            <input id="symbol" name="symbol" placeholder="AAPL" autocomplete="off" />
          </div>
          <div class="field">
            <label for="quantity">Quantity</label>
            <input id="quantity" name="quantity" inputmode="decimal" placeholder="10" />
          </div>
          <div class="field">
            <label for="price">Price</label>
            <input id="price" name="price" inputmode="decimal" placeholder="189.50" />
          </div>
          <button type="submit">Place</button>
          <button type="button" id="resetBtn" class="danger">Reset</button>
          <div id="ticketError"></div>
        </form>
      </section>
      <section class="panel">
        <h2>Positions</h2>
        <table>
          <thead>
            <tr>
              <th>Symbol</th><th class="num">Qty</th><th class="num">Avg</th>
              <th class="num">Price</th><th class="num">Value</th><th class="num">P/L</th><th class="num">P/L %</th>
            </tr>
          </thead>
          <tbody id="positionsBody"></tbody>
        </table>
        <div id="positionsEmpty" class="empty-state">No open positions</div>
      </section>
    </div>
    <aside>
      <h3 class="sidebar-title">Trade feed</h3>
      <div id="tradeFeed" class="trade-feed"></div>
    </aside>
  </div>
<script>
const statusEl = document.getElementById('sse-status');
const tradeFeed = document.getElementById('tradeFeed');
const positionsBody = document.getElementById('positionsBody');
const positionsEmpty = document.getElementById('positionsEmpty');
const ticketError = document.getElementById('ticketError');
const MAX_FEED = 50;

const parseNum = (value) => {
  const num = parseFloat(value);
  return Number.isFinite(num) ? num : 0;
};

const money = (value) => parseNum(value).toFixed(2);

const formatTime = (ts) => {
  if(!ts){ return ''; }
  const date = new Date(ts);
  if(Number.isNaN(date.getTime())){ return ''; }
  return date.toLocaleTimeString([], { hour12:false });
};

const plClass = (value) => parseNum(value) >= 0 ? 'gain' : 'loss';

async function refreshPortfolio(){
  try{
    const resp = await fetch('/api/portfolio');
    if(!resp.ok){ return; }
    const body = await resp.json();
    renderSummary(body.summary || {});
    renderHoldings(body.holdings || []);
  }catch(err){
    console.error('portfolio refresh', err);
  }
}

function renderSummary(summary){
  const totalValue = document.getElementById('totalValue');
  const totalPL = document.getElementById('totalPL');
  const totalPLPercent = document.getElementById('totalPLPercent');
  totalValue.textContent = '$' + money(summary.totalValue);
  totalPL.textContent = '$' + money(summary.totalProfitLoss);
  totalPL.className = 'value ' + plClass(summary.totalProfitLoss);
  totalPLPercent.textContent = money(summary.totalProfitLossPercent) + '%';
  totalPLPercent.className = 'value ' + plClass(summary.totalProfitLossPercent);
}

function renderHoldings(holdings){
  positionsBody.innerHTML = '';
  positionsEmpty.style.display = holdings.length ? 'none' : 'block';
  for(const h of holdings){
    const row = document.createElement('tr');
    const cells = [
      h.symbol,
      money(h.quantity),
      money(h.avgPrice),
      money(h.price) + (h.live ? '' : ' *'),
      money(h.marketValue),
      money(h.unrealizedPL),
      money(h.unrealizedPLPercent) + '%'
    ];
    cells.forEach((text, i) => {
      const td = document.createElement('td');
      if(i > 0){ td.className = 'num'; }
      if(i === 5 || i === 6){ td.classList.add(plClass(i === 5 ? h.unrealizedPL : h.unrealizedPLPercent)); }
      td.textContent = text;
      row.appendChild(td);
    });
    positionsBody.appendChild(row);
  }
}

function addTradeCard(trade){
  const card = document.createElement('div');
  card.className = 'trade-card';

  const side = document.createElement('span');
  side.className = 'trade-side ' + trade.side;
  side.textContent = trade.side;

  const time = document.createElement('span');
  time.className = 'trade-time';
  time.textContent = formatTime(trade.time);

  const line = document.createElement('div');
  line.textContent = trade.symbol + ' × ' + trade.quantity + ' @ ' + money(trade.price);

  card.append(side, time, line);
  tradeFeed.insertBefore(card, tradeFeed.firstChild);
  while(tradeFeed.children.length > MAX_FEED){
    tradeFeed.removeChild(tradeFeed.lastChild);
  }
}

document.getElementById('ticket').addEventListener('submit', async (event) => {
  event.preventDefault();
  ticketError.textContent = '';
  const payload = {
    side: document.getElementById('side').value,
    symbol: document.getElementById('symbol').value.trim().toUpperCase(),
    quantity: parseNum(document.getElementById('quantity').value),
    price: parseNum(document.getElementById('price').value)
  };
  try{
    const resp = await fetch('/api/orders', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(payload)
    });
    if(!resp.ok){
      const body = await resp.json().catch(() => ({}));
      ticketError.textContent = body.message || 'order rejected';
      return;
    }
    document.getElementById('symbol').value = '';
    document.getElementById('quantity').value = '';
    document.getElementById('price').value = '';
    refreshPortfolio();
  }catch(err){
    ticketError.textContent = 'request failed';
  }
});

document.getElementById('resetBtn').addEventListener('click', async () => {
  if(!confirm('Clear all trades and positions?')){ return; }
  await fetch('/api/reset', { method:'POST' });
  tradeFeed.innerHTML = '';
  refreshPortfolio();
});

function connectSSE(){
  const source = new EventSource('/api/trades/stream');
  source.addEventListener('open', () => {
    statusEl.textContent = 'Live';
  });
  source.addEventListener('trade', (event) => {
    try{
      const record = JSON.parse(event.data);
      if(record.trade){ addTradeCard(record.trade); }
      refreshPortfolio();
    }catch(err){
      console.error('trade parse', err);
    }
  });
  source.addEventListener('reset', () => {
    tradeFeed.innerHTML = '';
    refreshPortfolio();
  });
  source.addEventListener('error', () => {
    statusEl.textContent = 'Reconnecting…';
    source.close();
    setTimeout(connectSSE, 2000);
  });
}

refreshPortfolio();
connectSSE();
</script>
</body>
</html>`
